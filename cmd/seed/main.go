// seed genera los scripts SQL de esquema y catálogo inicial del servicio.
//
// Uso: go run ./cmd/seed [directorio-salida]
// Por defecto escribe en internal/infrastructure/postgres/migrations/.
// Genera: 001_schema.sql (DDL) y 002_seed_catalog.sql (catálogo de módulos,
// sub-módulos y tipos de límite con precios anuales).
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const schemaSQL = `-- Esquema del servicio de facturación de suscripciones (Phase 7).

CREATE TABLE IF NOT EXISTS users (
    id            UUID PRIMARY KEY,
    tenant_id     UUID NOT NULL,
    email         VARCHAR(255) NOT NULL UNIQUE,
    password_hash VARCHAR(255) NOT NULL,
    name          VARCHAR(255) NOT NULL,
    role          VARCHAR(20)  NOT NULL DEFAULT 'member',
    status        VARCHAR(20)  NOT NULL DEFAULT 'active',
    created_at    TIMESTAMPTZ  NOT NULL DEFAULT now(),
    updated_at    TIMESTAMPTZ  NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_users_tenant ON users (tenant_id);

CREATE TABLE IF NOT EXISTS modules_catalog (
    id           UUID PRIMARY KEY,
    slug         VARCHAR(100) NOT NULL UNIQUE,
    name         VARCHAR(255) NOT NULL,
    description  TEXT,
    yearly_price NUMERIC(14,2) NOT NULL,
    is_active    BOOLEAN NOT NULL DEFAULT true,
    sort_order   INT NOT NULL DEFAULT 0,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS sub_modules_catalog (
    id           UUID PRIMARY KEY,
    module_id    UUID NOT NULL REFERENCES modules_catalog(id),
    slug         VARCHAR(100) NOT NULL UNIQUE,
    name         VARCHAR(255) NOT NULL,
    yearly_price NUMERIC(14,2) NOT NULL,
    is_active    BOOLEAN NOT NULL DEFAULT true,
    sort_order   INT NOT NULL DEFAULT 0,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_sub_modules_module ON sub_modules_catalog (module_id);

CREATE TABLE IF NOT EXISTS limit_types_catalog (
    id             UUID PRIMARY KEY,
    slug           VARCHAR(100) NOT NULL UNIQUE,
    name           VARCHAR(255) NOT NULL,
    unit           VARCHAR(50)  NOT NULL,
    default_limit  BIGINT NOT NULL,
    increment_step BIGINT NOT NULL,
    price_per_unit NUMERIC(14,2) NOT NULL,
    is_active      BOOLEAN NOT NULL DEFAULT true,
    sort_order     INT NOT NULL DEFAULT 0,
    created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS custom_packages (
    id                 UUID PRIMARY KEY,
    tenant_id          UUID NOT NULL,
    name               VARCHAR(255) NOT NULL,
    description        TEXT,
    total_yearly_price NUMERIC(14,2) NOT NULL,
    status             VARCHAR(20) NOT NULL DEFAULT 'draft',
    activated_at       TIMESTAMPTZ,
    suspended_at       TIMESTAMPTZ,
    cancelled_at       TIMESTAMPTZ,
    created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_custom_packages_tenant ON custom_packages (tenant_id);

CREATE TABLE IF NOT EXISTS custom_package_modules (
    id                UUID PRIMARY KEY,
    package_id        UUID NOT NULL REFERENCES custom_packages(id),
    module_id         UUID NOT NULL REFERENCES modules_catalog(id),
    price_at_purchase NUMERIC(14,2) NOT NULL,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (package_id, module_id)
);

CREATE TABLE IF NOT EXISTS custom_package_sub_modules (
    id                UUID PRIMARY KEY,
    package_id        UUID NOT NULL REFERENCES custom_packages(id),
    sub_module_id     UUID NOT NULL REFERENCES sub_modules_catalog(id),
    price_at_purchase NUMERIC(14,2) NOT NULL,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (package_id, sub_module_id)
);

CREATE TABLE IF NOT EXISTS custom_package_limits (
    id                UUID PRIMARY KEY,
    package_id        UUID NOT NULL REFERENCES custom_packages(id),
    limit_type_id     UUID NOT NULL REFERENCES limit_types_catalog(id),
    limit_value       BIGINT NOT NULL,
    price_at_purchase NUMERIC(14,2) NOT NULL,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
    UNIQUE (package_id, limit_type_id)
);

CREATE TABLE IF NOT EXISTS phase7_subscriptions (
    id                   UUID PRIMARY KEY,
    tenant_id            UUID NOT NULL,
    custom_package_id    UUID NOT NULL REFERENCES custom_packages(id),
    status               VARCHAR(20) NOT NULL DEFAULT 'trial',
    billing_cycle        VARCHAR(20) NOT NULL DEFAULT 'yearly',
    yearly_amount        NUMERIC(14,2) NOT NULL,
    start_date           TIMESTAMPTZ NOT NULL,
    renewal_date         TIMESTAMPTZ NOT NULL,
    trial_ends_at        TIMESTAMPTZ,
    grace_period_days    INT NOT NULL DEFAULT 7,
    auto_renewal_enabled BOOLEAN NOT NULL DEFAULT true,
    last_renewal_at      TIMESTAMPTZ,
    cancelled_at         TIMESTAMPTZ,
    suspended_at         TIMESTAMPTZ,
    created_at           TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);

-- A lo sumo una suscripción no terminal por tenant: el INSERT concurrente
-- pierde con 23505.
CREATE UNIQUE INDEX IF NOT EXISTS uq_subscriptions_tenant_live
    ON phase7_subscriptions (tenant_id)
    WHERE status IN ('trial', 'active', 'grace_period');

-- El sweep filtra por vencimiento.
CREATE INDEX IF NOT EXISTS idx_subscriptions_renewal
    ON phase7_subscriptions (renewal_date)
    WHERE status IN ('trial', 'active', 'grace_period');
`

type seedModule struct {
	slug, name, desc string
	price            string
	sortOrder        int
	subs             []seedSubModule
}

type seedSubModule struct {
	slug, name string
	price      string
	sortOrder  int
}

type seedLimitType struct {
	slug, name, unit string
	defaultLimit     int64
	incrementStep    int64
	pricePerUnit     string
	sortOrder        int
}

// Catálogo inicial con precios anuales.
var modules = []seedModule{
	{slug: "accounting", name: "Contabilidad", desc: "Libro mayor, asientos y reportes contables", price: "10000.00", sortOrder: 1, subs: []seedSubModule{
		{slug: "accounting-reports", name: "Reportes avanzados", price: "2000.00", sortOrder: 1},
		{slug: "accounting-multi-currency", name: "Multi-moneda", price: "3000.00", sortOrder: 2},
	}},
	{slug: "inventory", name: "Inventario", desc: "Productos, bodegas y movimientos de stock", price: "8000.00", sortOrder: 2, subs: []seedSubModule{
		{slug: "inventory-batches", name: "Lotes y vencimientos", price: "2500.00", sortOrder: 1},
	}},
	{slug: "hr", name: "Recursos Humanos", desc: "Empleados, nómina y asistencia", price: "12000.00", sortOrder: 3, subs: []seedSubModule{
		{slug: "hr-payroll", name: "Nómina electrónica", price: "4000.00", sortOrder: 1},
		{slug: "hr-attendance", name: "Control de asistencia", price: "1500.00", sortOrder: 2},
	}},
	{slug: "crm", name: "CRM", desc: "Clientes, oportunidades y pipeline de ventas", price: "9000.00", sortOrder: 4},
}

var limitTypes = []seedLimitType{
	{slug: "users", name: "Usuarios", unit: "usuario", defaultLimit: 5, incrementStep: 5, pricePerUnit: "500.00", sortOrder: 1},
	{slug: "storage-gb", name: "Almacenamiento", unit: "GB", defaultLimit: 10, incrementStep: 10, pricePerUnit: "100.00", sortOrder: 2},
	{slug: "invoices-month", name: "Facturas por mes", unit: "factura", defaultLimit: 100, incrementStep: 100, pricePerUnit: "20.00", sortOrder: 3},
}

func main() {
	outDir := filepath.Join("internal", "infrastructure", "postgres", "migrations")
	if len(os.Args) > 1 {
		outDir = os.Args[1]
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "crear directorio de salida: %v\n", err)
		os.Exit(1)
	}

	schemaPath := filepath.Join(outDir, "001_schema.sql")
	if err := os.WriteFile(schemaPath, []byte(schemaSQL), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "escribir esquema: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("OK:", schemaPath)

	seedPath := filepath.Join(outDir, "002_seed_catalog.sql")
	if err := os.WriteFile(seedPath, []byte(buildCatalogSeed()), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "escribir seed de catálogo: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("OK:", seedPath)
}

func buildCatalogSeed() string {
	var b strings.Builder
	b.WriteString("-- Catálogo inicial de módulos, sub-módulos y tipos de límite.\n\n")

	for _, m := range modules {
		moduleID := uuid.New().String()
		b.WriteString(fmt.Sprintf(
			"INSERT INTO modules_catalog (id, slug, name, description, yearly_price, is_active, sort_order)\n"+
				"VALUES ('%s', '%s', '%s', '%s', %s, true, %d)\n"+
				"ON CONFLICT (slug) DO NOTHING;\n",
			moduleID, m.slug, escape(m.name), escape(m.desc), m.price, m.sortOrder,
		))
		for _, sm := range m.subs {
			b.WriteString(fmt.Sprintf(
				"INSERT INTO sub_modules_catalog (id, module_id, slug, name, yearly_price, is_active, sort_order)\n"+
					"SELECT '%s', id, '%s', '%s', %s, true, %d FROM modules_catalog WHERE slug = '%s'\n"+
					"ON CONFLICT (slug) DO NOTHING;\n",
				uuid.New().String(), sm.slug, escape(sm.name), sm.price, sm.sortOrder, m.slug,
			))
		}
		b.WriteString("\n")
	}

	for _, lt := range limitTypes {
		b.WriteString(fmt.Sprintf(
			"INSERT INTO limit_types_catalog (id, slug, name, unit, default_limit, increment_step, price_per_unit, is_active, sort_order)\n"+
				"VALUES ('%s', '%s', '%s', '%s', %d, %d, %s, true, %d)\n"+
				"ON CONFLICT (slug) DO NOTHING;\n",
			uuid.New().String(), lt.slug, escape(lt.name), lt.unit,
			lt.defaultLimit, lt.incrementStep, lt.pricePerUnit, lt.sortOrder,
		))
	}
	return b.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
