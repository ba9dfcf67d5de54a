package repositories

import (
	"ClaimProcess/cache"
	"ClaimProcess/models"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const (
	TopNetFeesCacheExpiry = 30 * time.Second

	topNetFeesCachePattern = "top_net_fees_cache:*"
	// topNetFeesGenerationKey is bumped after every committed insert. Cached
	// rankings are keyed by generation, so a ranking read before a commit is
	// never served after it.
	topNetFeesGenerationKey = "top_net_fees_generation"
)

// ClaimRepository persists claims and answers the ranked net fee query.
// Equal net fees are returned in insertion order (ascending id).
//
//go:generate mockgen -destination=mocks/mock_claimRepository.go -source=claimRepository.go ClaimRepository
type ClaimRepository interface {
	Create(ctx context.Context, claim *models.Claim) error
	TopByNetFee(ctx context.Context, n int) ([]models.Claim, error)
}

type claimRepository struct {
	db    *gorm.DB
	cache *cache.Cache
	log   zerolog.Logger
}

// NewClaimRepository returns the PostgreSQL-backed repository. cache may be
// nil, in which case every top-N query goes to the database.
func NewClaimRepository(db *gorm.DB, cache *cache.Cache, log zerolog.Logger) ClaimRepository {
	return &claimRepository{db: db, cache: cache, log: log}
}

func (r *claimRepository) Create(ctx context.Context, claim *models.Claim) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(claim).Error; err != nil {
			return fmt.Errorf("failed to create claim: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if r.cache != nil {
		if _, err := r.cache.Incr(ctx, topNetFeesGenerationKey); err != nil {
			r.log.Warn().Err(err).Int64("claim_id", claim.ID).Msg("failed to bump top net fees generation")
			if err := r.cache.DeleteAll(ctx, topNetFeesCachePattern); err != nil {
				r.log.Warn().Err(err).Int64("claim_id", claim.ID).Msg("failed to invalidate top net fees cache")
			}
		}
	}
	return nil
}

func (r *claimRepository) TopByNetFee(ctx context.Context, n int) ([]models.Claim, error) {
	if n <= 0 {
		return []models.Claim{}, nil
	}

	// An empty cacheKey bypasses the cache for this call.
	var cacheKey string
	if r.cache != nil {
		generation, err := r.cache.Get(ctx, topNetFeesGenerationKey)
		if err != nil {
			r.log.Warn().Err(err).Msg("failed to get top net fees generation")
		} else {
			cacheKey = r.getTopNetFeesCacheKey(generation, n)
		}
	}
	if cacheKey != "" {
		cached, err := r.cache.Get(ctx, cacheKey)
		if err != nil {
			r.log.Warn().Err(err).Msg("failed to get top net fees from cache")
		} else if cached != "" {
			var claims []models.Claim
			if err := json.Unmarshal([]byte(cached), &claims); err == nil {
				return claims, nil
			}
		}
	}

	claims := []models.Claim{}
	err := r.db.WithContext(ctx).
		Order("net_fee DESC").
		Order("id ASC").
		Limit(n).
		Find(&claims).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get top claims by net fee: %w", err)
	}

	if cacheKey != "" {
		claimsJSON, err := json.Marshal(claims)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal claims: %w", err)
		}
		if err := r.cache.Set(ctx, cacheKey, claimsJSON, TopNetFeesCacheExpiry); err != nil {
			r.log.Warn().Err(err).Msg("failed to set top net fees in cache")
		}
	}

	return claims, nil
}

func (r *claimRepository) getTopNetFeesCacheKey(generation string, n int) string {
	if generation == "" {
		generation = "0"
	}
	return fmt.Sprintf("top_net_fees_cache:%s:%d", generation, n)
}
