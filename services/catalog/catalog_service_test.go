package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/VellaPay/VellaPay-Backend/providers/bills"
	"github.com/VellaPay/VellaPay-Backend/services/monitoring/logging"
	redis_service "github.com/VellaPay/VellaPay-Backend/services/redis"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	variations map[string][]bills.Variation
	failing    bool
	calls      int
}

func (s *stubSource) GetServiceCategories() ([]bills.ServiceCategory, error) {
	if s.failing {
		return nil, fmt.Errorf("aggregator unreachable")
	}
	return []bills.ServiceCategory{{Identifier: "airtime", Name: "Airtime Recharge"}}, nil
}

func (s *stubSource) GetServiceIdentifiers(identifier string) ([]bills.ServiceIdentifier, error) {
	if s.failing {
		return nil, fmt.Errorf("aggregator unreachable")
	}
	return []bills.ServiceIdentifier{{ServiceID: "mtn", Name: "MTN Airtime"}}, nil
}

func (s *stubSource) GetServiceVariations(serviceID string) ([]bills.Variation, error) {
	s.calls++
	if s.failing {
		return nil, fmt.Errorf("aggregator unreachable")
	}
	return s.variations[serviceID], nil
}

func TestVariationsFetchedAndCached(t *testing.T) {
	source := &stubSource{
		variations: map[string][]bills.Variation{
			"mtn-data": {{VariationCode: "mtn-1gb", Name: "1GB - 30 Days", VariationAmount: "300.00"}},
		},
	}
	svc := NewCatalogService(source, nil, logging.NewTestLogger())

	variations, err := svc.Variations(context.Background(), "mtn-data")
	require.NoError(t, err)
	require.Len(t, variations, 1)
	assert.Equal(t, "mtn-1gb", variations[0].VariationCode)
}

func TestVariationsServedStaleOnError(t *testing.T) {
	source := &stubSource{
		variations: map[string][]bills.Variation{
			"dstv": {{VariationCode: "dstv-padi", Name: "DStv Padi", VariationAmount: "3600.00"}},
		},
	}
	svc := NewCatalogService(source, nil, logging.NewTestLogger())
	ctx := context.Background()

	_, err := svc.Variations(ctx, "dstv")
	require.NoError(t, err)

	source.failing = true

	variations, err := svc.Variations(ctx, "dstv")
	require.NoError(t, err)
	require.Len(t, variations, 1)
	assert.Equal(t, "dstv-padi", variations[0].VariationCode)
}

func TestVariationsErrorWithoutStaleCopy(t *testing.T) {
	source := &stubSource{failing: true}
	svc := NewCatalogService(source, nil, logging.NewTestLogger())

	_, err := svc.Variations(context.Background(), "unknown")
	assert.Error(t, err)
}

func TestCategoriesStaleFallback(t *testing.T) {
	source := &stubSource{}
	svc := NewCatalogService(source, nil, logging.NewTestLogger())
	ctx := context.Background()

	_, err := svc.Categories(ctx)
	require.NoError(t, err)

	source.failing = true

	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "airtime", categories[0].Identifier)
}

func newTestRedis(t *testing.T) *redis_service.RedisService {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	svc, err := redis_service.NewRedisService(&redis_service.RedisConfig{Host: mr.Host(), Port: mr.Port()})
	require.NoError(t, err)
	return svc
}

// A service served straight from a warm shared cache still has to be
// tracked for refresh and mirrored into the stale fallback, or a restarted
// instance would never re-fetch it and would have nothing to serve when
// both redis and the aggregator go away.
func TestWarmSharedCacheStillTracksService(t *testing.T) {
	redisService := newTestRedis(t)
	ctx := context.Background()

	// a previous instance left the shared cache warm
	warm := []bills.Variation{{VariationCode: "mtn-1gb", Name: "1GB - 30 Days", VariationAmount: "300.00"}}
	require.NoError(t, redisService.StoreVariations(ctx, "variations:mtn-data", warm))

	source := &stubSource{}
	svc := NewCatalogService(source, redisService, logging.NewTestLogger())

	variations, err := svc.Variations(ctx, "mtn-data")
	require.NoError(t, err)
	require.Len(t, variations, 1)
	assert.Equal(t, 0, source.calls)

	assert.Contains(t, svc.trackedServices(), "mtn-data")

	// stale fallback must hold the copy even with redis and the
	// aggregator both gone
	svc.redis = nil
	source.failing = true
	variations, err = svc.Variations(ctx, "mtn-data")
	require.NoError(t, err)
	require.Len(t, variations, 1)
	assert.Equal(t, "mtn-1gb", variations[0].VariationCode)
}

func TestCategoriesServedFromSharedCache(t *testing.T) {
	redisService := newTestRedis(t)
	ctx := context.Background()

	warmSource := &stubSource{}
	warmer := NewCatalogService(warmSource, redisService, logging.NewTestLogger())
	_, err := warmer.Categories(ctx)
	require.NoError(t, err)

	// a fresh instance with an unreachable aggregator serves from redis
	svc := NewCatalogService(&stubSource{failing: true}, redisService, logging.NewTestLogger())
	categories, err := svc.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "airtime", categories[0].Identifier)
}

func TestRefetchPrunesRemovedVariations(t *testing.T) {
	redisService := newTestRedis(t)
	ctx := context.Background()

	source := &stubSource{
		variations: map[string][]bills.Variation{
			"mtn-data": {
				{VariationCode: "mtn-1gb", Name: "1GB - 30 Days", VariationAmount: "300.00"},
				{VariationCode: "mtn-2gb", Name: "2GB - 30 Days", VariationAmount: "500.00"},
			},
		},
	}
	svc := NewCatalogService(source, redisService, logging.NewTestLogger())

	_, err := svc.fetchAndStore(ctx, "mtn-data")
	require.NoError(t, err)

	// the aggregator drops a plan; the re-fetch must not leave it behind
	source.variations["mtn-data"] = source.variations["mtn-data"][:1]
	_, err = svc.fetchAndStore(ctx, "mtn-data")
	require.NoError(t, err)

	cached, err := redisService.GetVariations(ctx, "variations:mtn-data")
	require.NoError(t, err)
	require.Len(t, cached, 1)
	assert.Equal(t, "mtn-1gb", cached[0].VariationCode)
}
