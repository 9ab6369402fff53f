// Package cache ofrece una caché clave-valor con implementaciones Redis y en memoria.
package cache

import (
	"context"
)

// Cache es una caché clave-valor que serializa en JSON.
type Cache interface {
	// Get rellena dest (un puntero). Devuelve (false, nil) en un miss.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set guarda el valor con un TTL en segundos.
	Set(ctx context.Context, key string, val interface{}, ttlSecs int) error

	Delete(ctx context.Context, key string) error
}
