// Package cache guarda read-models derivados en Redis. Un miss o un fallo de Redis
// nunca hace fallar la petición: el llamador recalcula desde la base.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Orbita-api/internal/application/analytics"
	"github.com/jhoicas/Orbita-api/internal/application/dto"
)

// ResourceKeyPrefix prefijo de las claves del tablero combinado (resources:combined:<org>).
const ResourceKeyPrefix = "resources:combined:"

var _ analytics.ResourceCache = (*ResourceCache)(nil)

// ResourceCache tablero combinado por organización, serializado como JSON con TTL.
type ResourceCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewResourceCache construye la caché. ttl <= 0 usa un minuto.
func NewResourceCache(rdb *redis.Client, ttl time.Duration) *ResourceCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &ResourceCache{rdb: rdb, ttl: ttl}
}

// NewClient abre un cliente desde una URL redis:// y verifica la conexión.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// Get devuelve (nil, nil) en un miss.
func (c *ResourceCache) Get(ctx context.Context, organizationID string) (*dto.CombinedResourcesResponse, error) {
	raw, err := c.rdb.Get(ctx, key(organizationID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}
	var out dto.CombinedResourcesResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		// Entrada corrupta o de un formato anterior: se descarta.
		_ = c.rdb.Del(ctx, key(organizationID)).Err()
		return nil, nil
	}
	return &out, nil
}

// Set guarda el tablero con el TTL configurado.
func (c *ResourceCache) Set(ctx context.Context, organizationID string, v *dto.CombinedResourcesResponse) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode resources: %w", err)
	}
	if err := c.rdb.Set(ctx, key(organizationID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Invalidate borra la entrada de la organización.
func (c *ResourceCache) Invalidate(ctx context.Context, organizationID string) error {
	if err := c.rdb.Del(ctx, key(organizationID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func key(organizationID string) string {
	return ResourceKeyPrefix + organizationID
}
