package utils

import (
	"errors"
	"regexp"
	"strconv"

	"ClaimProcess/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var procedureCodePattern = regexp.MustCompile(`^D`)

// ValidateClaimRules checks the domain rules of a decoded claim: the submitted
// procedure code starts with "D" and the provider NPI has exactly 10 digits.
func ValidateClaimRules(in models.ClaimInput) error {
	err := validation.Validate(in.SubmittedProcedure,
		validation.Required.Error(MsgInvalidProcedure),
		validation.Match(procedureCodePattern).Error(MsgInvalidProcedure),
	)
	if err != nil {
		return &BusinessRuleError{Message: MsgInvalidProcedure}
	}

	if err := validation.Validate(in.ProviderNPI, validation.By(validateNPI)); err != nil {
		return &BusinessRuleError{Message: MsgInvalidNPI}
	}
	return nil
}

// ValidateNetFee rejects net fees that are negative or do not fit the
// numeric(10,2) column.
func ValidateNetFee(netFee models.Money) error {
	if netFee.IsNegative() {
		return &BusinessRuleError{Message: MsgNegativeNetFee}
	}
	if !netFee.FitsColumn() {
		return &BusinessRuleError{Message: MsgNetFeeOutOfRange}
	}
	return nil
}

// validateNPI counts the digits of the canonical decimal representation.
func validateNPI(value interface{}) error {
	npi, _ := value.(int64)
	if npi <= 0 || len(strconv.FormatInt(npi, 10)) != 10 {
		return errors.New(MsgInvalidNPI)
	}
	return nil
}
