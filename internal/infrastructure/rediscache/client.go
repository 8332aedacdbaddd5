// Package rediscache implementa el cache del catálogo sobre Redis.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/gajjarumesh/erp-beta-sub001/internal/application/catalog"
)

// Asegura que Client implementa catalog.Cache.
var _ catalog.Cache = (*Client)(nil)

// Client envuelve go-redis para el cache de lecturas del catálogo.
type Client struct {
	rdb *redis.Client
}

// NewClient construye el cliente y verifica la conexión con un ping.
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("conectar a redis: %w", err)
	}
	return &Client{rdb: rdb}, nil
}

// Get devuelve el valor de la clave, nil sin error si no existe.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return raw, nil
}

// Set guarda el valor con expiración.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, key, value, ttl).Err()
}

// Delete elimina claves (invalidación tras cambios de catálogo).
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}

// Close cierra la conexión.
func (c *Client) Close() error {
	return c.rdb.Close()
}
