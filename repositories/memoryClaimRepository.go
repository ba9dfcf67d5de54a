package repositories

import (
	"ClaimProcess/models"
	"context"
	"sort"
	"sync"
)

// memoryClaimRepository keeps claims in process memory. It follows the same
// ordering contract as the PostgreSQL repository.
type memoryClaimRepository struct {
	mu     sync.RWMutex
	nextID int64
	claims []models.Claim
}

func NewMemoryClaimRepository() ClaimRepository {
	return &memoryClaimRepository{}
}

func (r *memoryClaimRepository) Create(ctx context.Context, claim *models.Claim) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	claim.ID = r.nextID
	r.claims = append(r.claims, copyClaim(*claim))
	return nil
}

func (r *memoryClaimRepository) TopByNetFee(ctx context.Context, n int) ([]models.Claim, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n <= 0 {
		return []models.Claim{}, nil
	}

	r.mu.RLock()
	claims := make([]models.Claim, 0, len(r.claims))
	for _, claim := range r.claims {
		claims = append(claims, copyClaim(claim))
	}
	r.mu.RUnlock()

	// claims is in id order, so a stable sort keeps ties in insertion order.
	sort.SliceStable(claims, func(i, j int) bool {
		return claims[i].NetFee.Cmp(claims[j].NetFee) > 0
	})
	if len(claims) > n {
		claims = claims[:n]
	}
	return claims, nil
}

func copyClaim(claim models.Claim) models.Claim {
	if claim.Quadrant != nil {
		quadrant := *claim.Quadrant
		claim.Quadrant = &quadrant
	}
	return claim
}
