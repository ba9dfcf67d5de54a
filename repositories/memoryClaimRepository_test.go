package repositories_test

import (
	"ClaimProcess/models"
	"ClaimProcess/repositories"
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func claimWithNetFee(t *testing.T, netFee string) *models.Claim {
	t.Helper()
	fee, err := models.MoneyFromString(netFee)
	require.NoError(t, err)
	quadrant := "UR"
	return &models.Claim{
		SubmittedProcedure: "D1110",
		Quadrant:           &quadrant,
		PlanGroup:          "GRP-1000",
		Subscriber:         "3730189502",
		ProviderNPI:        1234567890,
		NetFee:             fee,
	}
}

func TestMemoryClaimRepository_CreateAssignsAscendingIDs(t *testing.T) {
	repo := repositories.NewMemoryClaimRepository()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		claim := claimWithNetFee(t, "10.00")
		require.NoError(t, repo.Create(ctx, claim))
		assert.Equal(t, int64(i), claim.ID)
	}
}

func TestMemoryClaimRepository_TopByNetFee(t *testing.T) {
	repo := repositories.NewMemoryClaimRepository()
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		require.NoError(t, repo.Create(ctx, claimWithNetFee(t, fmt.Sprintf("%d.00", 122+i))))
	}

	claims, err := repo.TopByNetFee(ctx, 10)
	require.NoError(t, err)
	require.Len(t, claims, 10)
	for i, claim := range claims {
		assert.Equal(t, fmt.Sprintf("%d.00", 141-i), claim.NetFee.String())
	}
}

func TestMemoryClaimRepository_TiesKeepInsertionOrder(t *testing.T) {
	repo := repositories.NewMemoryClaimRepository()
	ctx := context.Background()

	for _, fee := range []string{"50.00", "75.00", "50.00", "75.00", "10.00"} {
		require.NoError(t, repo.Create(ctx, claimWithNetFee(t, fee)))
	}

	claims, err := repo.TopByNetFee(ctx, 4)
	require.NoError(t, err)

	var ids []int64
	for _, claim := range claims {
		ids = append(ids, claim.ID)
	}
	assert.Equal(t, []int64{2, 4, 1, 3}, ids)
}

func TestMemoryClaimRepository_FewerThanN(t *testing.T) {
	repo := repositories.NewMemoryClaimRepository()
	ctx := context.Background()

	claims, err := repo.TopByNetFee(ctx, 10)
	require.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Empty(t, claims)

	require.NoError(t, repo.Create(ctx, claimWithNetFee(t, "1.00")))
	claims, err = repo.TopByNetFee(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, claims, 1)

	claims, err = repo.TopByNetFee(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, claims)
}

func TestMemoryClaimRepository_StoredClaimsAreIsolated(t *testing.T) {
	repo := repositories.NewMemoryClaimRepository()
	ctx := context.Background()

	claim := claimWithNetFee(t, "1.00")
	require.NoError(t, repo.Create(ctx, claim))
	*claim.Quadrant = "LL"
	claim.Subscriber = "changed"

	claims, err := repo.TopByNetFee(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "UR", *claims[0].Quadrant)
	assert.Equal(t, "3730189502", claims[0].Subscriber)
}

func TestMemoryClaimRepository_ConcurrentCreates(t *testing.T) {
	repo := repositories.NewMemoryClaimRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, repo.Create(ctx, claimWithNetFee(t, fmt.Sprintf("%d.00", i))))
		}(i)
	}
	wg.Wait()

	claims, err := repo.TopByNetFee(ctx, 100)
	require.NoError(t, err)
	require.Len(t, claims, 50)

	seen := make(map[int64]bool)
	for _, claim := range claims {
		assert.False(t, seen[claim.ID], "duplicate id %d", claim.ID)
		seen[claim.ID] = true
	}
	assert.Equal(t, "49.00", claims[0].NetFee.String())
}

func TestMemoryClaimRepository_CanceledContext(t *testing.T) {
	repo := repositories.NewMemoryClaimRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, repo.Create(ctx, claimWithNetFee(t, "1.00")), context.Canceled)

	_, err := repo.TopByNetFee(ctx, 10)
	assert.ErrorIs(t, err, context.Canceled)
}
