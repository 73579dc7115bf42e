package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/VellaPay/VellaPay-Backend/providers/bills"
)

// variationTTL keeps shared variation data fresh across instances while the
// catalog refresher is responsible for repopulating it.
const variationTTL = 10 * time.Minute

func (r *RedisService) StoreVariations(ctx context.Context, key string, variations []bills.Variation) error {
	for _, variation := range variations {
		variationKey := fmt.Sprintf("%s:%s", key, variation.VariationCode)

		err := r.client.HSet(ctx, variationKey, map[string]interface{}{
			"variation_code":   variation.VariationCode,
			"name":             variation.Name,
			"variation_amount": variation.VariationAmount,
			"fixed_price":      variation.FixedPrice,
		}).Err()
		if err != nil {
			return fmt.Errorf("failed to store variation %s: %w", variation.VariationCode, err)
		}

		err = r.client.Expire(ctx, variationKey, variationTTL).Err()
		if err != nil {
			return fmt.Errorf("failed to set expiration for variation %s: %w", variation.VariationCode, err)
		}
	}
	return nil
}

func (r *RedisService) GetVariations(ctx context.Context, key string) ([]bills.Variation, error) {
	keys, err := r.client.Keys(ctx, fmt.Sprintf("%s:*", key)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get variation keys: %w", err)
	}

	var variations []bills.Variation

	for _, variationKey := range keys {
		fields, err := r.client.HGetAll(ctx, variationKey).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to get variation %s: %w", variationKey, err)
		}

		variation := bills.Variation{
			VariationCode:   fields["variation_code"],
			Name:            fields["name"],
			VariationAmount: fields["variation_amount"],
			FixedPrice:      fields["fixed_price"],
		}

		variations = append(variations, variation)
	}

	return variations, nil
}

func (r *RedisService) DeleteVariations(ctx context.Context, key string) error {
	keys, err := r.client.Keys(ctx, fmt.Sprintf("%s:*", key)).Result()
	if err != nil {
		return fmt.Errorf("failed to get variation keys: %w", err)
	}

	for _, key := range keys {
		if err := r.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to delete variation %s: %w", key, err)
		}
	}
	return nil
}
