package models

import (
	"time"
)

// Claim is a single submitted insurance line item. It is written once by the
// ingestion pipeline and never updated.
//
// The composite index idx_claims_net_fee_id backs the top-N query; equal net
// fees are ordered by ascending id, i.e. insertion order.
type Claim struct {
	ID                 int64     `gorm:"primaryKey;autoIncrement;column:id;index:idx_claims_net_fee_id,priority:2" json:"id"`
	ServiceDate        time.Time `gorm:"column:service_date;not null;default:now()" json:"service date"`
	SubmittedProcedure string    `gorm:"column:submitted_procedure;not null" json:"submitted procedure"`
	Quadrant           *string   `gorm:"column:quadrant" json:"quadrant"`
	PlanGroup          string    `gorm:"column:plan_group;not null" json:"plan/group #"`
	Subscriber         string    `gorm:"column:subscriber;not null" json:"subscriber #"`
	ProviderNPI        int64     `gorm:"column:provider_npi;not null" json:"provider npi"`
	ProviderFees       Money     `gorm:"column:provider_fees;type:numeric(10,2);not null" json:"provider fees"`
	AllowedFees        Money     `gorm:"column:allowed_fees;type:numeric(10,2);not null" json:"allowed fees"`
	MemberCoinsurance  Money     `gorm:"column:member_coinsurance;type:numeric(10,2);not null" json:"member coinsurance"`
	MemberCopay        Money     `gorm:"column:member_copay;type:numeric(10,2);not null" json:"member copay"`
	NetFee             Money     `gorm:"column:net_fee;type:numeric(10,2);not null;index:idx_claims_net_fee_id,priority:1,sort:desc" json:"netfee"`
}

func (Claim) TableName() string {
	return "claims"
}

// ClaimInput is a decoded claim before business validation. It carries no id
// and no net fee.
type ClaimInput struct {
	ServiceDate        time.Time
	SubmittedProcedure string
	Quadrant           *string
	PlanGroup          string
	Subscriber         string
	ProviderNPI        int64
	ProviderFees       Money
	AllowedFees        Money
	MemberCoinsurance  Money
	MemberCopay        Money
}

// NewClaim builds the record to persist from a validated input and its net fee.
func NewClaim(in ClaimInput, netFee Money) *Claim {
	return &Claim{
		ServiceDate:        in.ServiceDate,
		SubmittedProcedure: in.SubmittedProcedure,
		Quadrant:           in.Quadrant,
		PlanGroup:          in.PlanGroup,
		Subscriber:         in.Subscriber,
		ProviderNPI:        in.ProviderNPI,
		ProviderFees:       in.ProviderFees,
		AllowedFees:        in.AllowedFees,
		MemberCoinsurance:  in.MemberCoinsurance,
		MemberCopay:        in.MemberCopay,
		NetFee:             netFee,
	}
}
