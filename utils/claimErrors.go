package utils

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Business rule messages returned to API clients.
const (
	MsgInvalidProcedure = "Invalid submitted procedure"
	MsgInvalidNPI       = "Invalid provider NPI"
	MsgNegativeNetFee   = "Calculated net fee is negative"
	MsgNetFeeOutOfRange = "Calculated net fee is out of range"
)

// StructuralError reports claim input that is missing required fields or
// holds values that cannot be converted to their declared types.
type StructuralError struct {
	Fields validation.Errors
}

func (e *StructuralError) Error() string {
	return "invalid claim input: " + e.Fields.Error()
}

func (e *StructuralError) Unwrap() error {
	return e.Fields
}

// BusinessRuleError reports a decoded claim that violates a domain rule.
type BusinessRuleError struct {
	Message string
}

func (e *BusinessRuleError) Error() string {
	return e.Message
}
