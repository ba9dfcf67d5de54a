package services

import (
	"ClaimProcess/models"
	"ClaimProcess/repositories"
	"ClaimProcess/utils"
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// TopNetFeesLimit is the size of the top net fee ranking.
const TopNetFeesLimit = 10

type ClaimService struct {
	repository repositories.ClaimRepository
	log        zerolog.Logger
}

func NewClaimService(repository repositories.ClaimRepository, log zerolog.Logger) *ClaimService {
	return &ClaimService{repository: repository, log: log}
}

// Create applies the business rules to a decoded claim, computes its net fee
// and stores it. Nothing is written when a rule fails.
func (s *ClaimService) Create(ctx context.Context, input models.ClaimInput) (*models.Claim, error) {
	if err := utils.ValidateClaimRules(input); err != nil {
		s.log.Debug().Err(err).
			Str("submitted_procedure", input.SubmittedProcedure).
			Int64("provider_npi", input.ProviderNPI).
			Msg("claim rejected")
		return nil, err
	}

	netFee := CalculateNetFee(input)
	if err := utils.ValidateNetFee(netFee); err != nil {
		s.log.Debug().Err(err).Str("net_fee", netFee.String()).Msg("claim rejected")
		return nil, err
	}

	claim := models.NewClaim(input, netFee)
	if err := s.repository.Create(ctx, claim); err != nil {
		return nil, fmt.Errorf("failed to store claim: %w", err)
	}

	s.log.Info().
		Int64("claim_id", claim.ID).
		Str("net_fee", claim.NetFee.String()).
		Msg("claim stored")
	return claim, nil
}

// CalculateNetFee returns providerFees + memberCoinsurance + memberCopay - allowedFees.
func CalculateNetFee(input models.ClaimInput) models.Money {
	return input.ProviderFees.
		Add(input.MemberCoinsurance).
		Add(input.MemberCopay).
		Sub(input.AllowedFees)
}

// TopNetFees returns the TopNetFeesLimit claims with the highest net fee,
// highest first.
func (s *ClaimService) TopNetFees(ctx context.Context) ([]models.Claim, error) {
	claims, err := s.repository.TopByNetFee(ctx, TopNetFeesLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list top claims: %w", err)
	}
	if claims == nil {
		claims = []models.Claim{}
	}
	return claims, nil
}
