package packages

import (
	"context"

	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/repository"
)

// TxRunner puerto de transacciones para el ciclo de vida de paquetes:
// la fila padre y sus filas hijas se escriben todo-o-nada, y las
// transiciones de estado leen con FOR UPDATE dentro de la misma tx.
type TxRunner interface {
	Run(ctx context.Context, fn func(pkgRepo repository.PackageRepository) error) error
}
