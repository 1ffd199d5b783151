package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Orbita-api/internal/application/dto"
	"github.com/jhoicas/Orbita-api/internal/domain/stats"
)

func setupCache(t *testing.T) (*ResourceCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewResourceCache(rdb, 30*time.Second), mr
}

func sample() *dto.CombinedResourcesResponse {
	return &dto.CombinedResourcesResponse{
		OrganizationID: "org-a",
		Workloads: []stats.Workload{{
			UserID: "u1", UserName: "Ana",
			AllocatedHours: decimal.RequireFromString("44"), MaxHours: decimal.RequireFromString("40"),
			Utilization: decimal.RequireFromString("110"), OverAllocated: true,
		}},
		Users:     dto.UserCountsDTO{Total: 3, Active: 2, ActivePercent: 67},
		Affiliate: stats.CommissionSummary{Due: decimal.RequireFromString("100"), Paid: decimal.Zero, Count: 1},
	}
}

func TestResourceCache_MissSetGet(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	got, err := c.Get(ctx, "org-a")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, "org-a", sample()))

	got, err = c.Get(ctx, "org-a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(67), got.Users.ActivePercent)
	require.Len(t, got.Workloads, 1)
	assert.True(t, got.Workloads[0].Utilization.Equal(decimal.RequireFromString("110")))
	assert.True(t, got.Affiliate.Due.Equal(decimal.RequireFromString("100")))

	other, err := c.Get(ctx, "org-b")
	require.NoError(t, err)
	assert.Nil(t, other, "las claves están separadas por organización")
}

func TestResourceCache_TTL(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "org-a", sample()))
	assert.Equal(t, 30*time.Second, mr.TTL(ResourceKeyPrefix+"org-a"))

	mr.FastForward(31 * time.Second)
	got, err := c.Get(ctx, "org-a")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestResourceCache_Invalidate(t *testing.T) {
	c, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "org-a", sample()))
	require.NoError(t, c.Invalidate(ctx, "org-a"))
	assert.False(t, mr.Exists(ResourceKeyPrefix+"org-a"))
	require.NoError(t, c.Invalidate(ctx, "org-a"), "invalidar una clave ausente no es error")
}

func TestResourceCache_EntradaCorruptaSeDescarta(t *testing.T) {
	c, mr := setupCache(t)
	require.NoError(t, mr.Set(ResourceKeyPrefix+"org-a", "{not json"))

	got, err := c.Get(context.Background(), "org-a")
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists(ResourceKeyPrefix+"org-a"))
}

func TestResourceCache_RedisCaido(t *testing.T) {
	c, mr := setupCache(t)
	mr.Close()

	_, err := c.Get(context.Background(), "org-a")
	assert.Error(t, err)
	assert.Error(t, c.Invalidate(context.Background(), "org-a"))
}
