package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/VellaPay/VellaPay-Backend/providers/bills"
	"github.com/VellaPay/VellaPay-Backend/services/monitoring/logging"
	"github.com/VellaPay/VellaPay-Backend/services/redis"
	gocache "github.com/patrickmn/go-cache"
)

// DefaultRefreshInterval is how often tracked services are re-fetched from
// the aggregator. Catalog data is read-mostly and never mutated
// mid-transaction; a payment reads one snapshot and sticks with it.
const DefaultRefreshInterval = 10 * time.Minute

// VariationSource is the slice of the bill aggregator the catalog needs.
type VariationSource interface {
	GetServiceCategories() ([]bills.ServiceCategory, error)
	GetServiceIdentifiers(identifier string) ([]bills.ServiceIdentifier, error)
	GetServiceVariations(serviceID string) ([]bills.Variation, error)
}

// CatalogService serves service/variation data from the shared redis cache
// when warm, falling back to the aggregator, and serves the last known good
// copy when the aggregator is down (stale-if-error).
type CatalogService struct {
	source   VariationSource
	redis    *redis.RedisService
	stale    *gocache.Cache
	logger   *logging.Logger
	interval time.Duration

	mu      sync.Mutex
	tracked map[string]struct{}
}

func NewCatalogService(source VariationSource, redisService *redis.RedisService, logger *logging.Logger) *CatalogService {
	return NewCatalogServiceWithInterval(source, redisService, logger, DefaultRefreshInterval)
}

func NewCatalogServiceWithInterval(source VariationSource, redisService *redis.RedisService, logger *logging.Logger, interval time.Duration) *CatalogService {
	return &CatalogService{
		source:   source,
		redis:    redisService,
		stale:    gocache.New(gocache.NoExpiration, 0),
		logger:   logger,
		interval: interval,
		tracked:  make(map[string]struct{}),
	}
}

const categoriesKey = "catalog:categories"

func (s *CatalogService) Categories(ctx context.Context) ([]bills.ServiceCategory, error) {
	if s.redis != nil {
		if raw, err := s.redis.Get(ctx, categoriesKey); err == nil && raw != "" {
			var cached []bills.ServiceCategory
			if err := json.Unmarshal([]byte(raw), &cached); err == nil && len(cached) > 0 {
				s.stale.Set("categories", cached, gocache.NoExpiration)
				return cached, nil
			}
		}
	}

	categories, err := s.source.GetServiceCategories()
	if err != nil {
		if cached, found := s.stale.Get("categories"); found {
			s.logger.Error("serving stale categories, aggregator unreachable", err)
			return cached.([]bills.ServiceCategory), nil
		}
		return nil, err
	}
	s.stale.Set("categories", categories, gocache.NoExpiration)

	if s.redis != nil {
		if raw, err := json.Marshal(categories); err == nil {
			if err := s.redis.Set(ctx, categoriesKey, raw, s.interval); err != nil {
				s.logger.Error("failed to store categories in redis", err)
			}
		}
	}
	return categories, nil
}

func (s *CatalogService) Services(ctx context.Context, identifier string) ([]bills.ServiceIdentifier, error) {
	key := "services:" + identifier
	services, err := s.source.GetServiceIdentifiers(identifier)
	if err != nil {
		if cached, found := s.stale.Get(key); found {
			s.logger.Error("serving stale services, aggregator unreachable", err)
			return cached.([]bills.ServiceIdentifier), nil
		}
		return nil, err
	}
	s.stale.Set(key, services, gocache.NoExpiration)
	return services, nil
}

// Variations serves a service's variations: shared redis cache first, then
// the aggregator, then the in-process stale copy.
func (s *CatalogService) Variations(ctx context.Context, serviceID string) ([]bills.Variation, error) {
	if s.redis != nil {
		cached, err := s.redis.GetVariations(ctx, variationKey(serviceID))
		if err == nil && len(cached) > 0 {
			// a warm shared cache still has to feed the refresh loop and
			// the stale fallback, or a restart would orphan the service
			s.stale.Set(variationKey(serviceID), cached, gocache.NoExpiration)
			s.track(serviceID)
			return cached, nil
		}
	}

	variations, err := s.fetchAndStore(ctx, serviceID)
	if err != nil {
		if cached, found := s.stale.Get(variationKey(serviceID)); found {
			s.logger.Error(fmt.Sprintf("serving stale variations for %v, aggregator unreachable", serviceID), err)
			return cached.([]bills.Variation), nil
		}
		return nil, err
	}

	return variations, nil
}

func (s *CatalogService) fetchAndStore(ctx context.Context, serviceID string) ([]bills.Variation, error) {
	variations, err := s.source.GetServiceVariations(serviceID)
	if err != nil {
		return nil, err
	}

	s.stale.Set(variationKey(serviceID), variations, gocache.NoExpiration)
	s.track(serviceID)

	if s.redis != nil {
		// drop the previous hashes first so variation codes the aggregator
		// removed do not linger in the shared cache
		if err := s.redis.DeleteVariations(ctx, variationKey(serviceID)); err != nil {
			s.logger.Error("failed to clear stale variations in redis", err)
		}
		if err := s.redis.StoreVariations(ctx, variationKey(serviceID), variations); err != nil {
			// shared cache misses are survivable, the stale copy stands
			s.logger.Error("failed to store variations in redis", err)
		}
	}

	return variations, nil
}

func (s *CatalogService) track(serviceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracked[serviceID] = struct{}{}
}

func (s *CatalogService) trackedServices() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.tracked))
	for id := range s.tracked {
		ids = append(ids, id)
	}
	return ids
}

// StartRefreshLoop re-fetches every tracked service on a fixed schedule,
// independent of any in-flight transaction. It returns when ctx is done.
func (s *CatalogService) StartRefreshLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, serviceID := range s.trackedServices() {
				if _, err := s.fetchAndStore(ctx, serviceID); err != nil {
					s.logger.Error(fmt.Sprintf("catalog refresh failed for %v", serviceID), err)
				}
			}
		}
	}
}

func variationKey(serviceID string) string {
	return "variations:" + serviceID
}
