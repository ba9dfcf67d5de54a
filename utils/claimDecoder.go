package utils

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"ClaimProcess/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

var (
	errNotObject    = validation.NewError("validation_is_object", "must be a JSON object")
	errNotString    = validation.NewError("validation_is_string", "must be a string")
	errNotInteger   = validation.NewError("validation_is_int", "must be a valid integer")
	errNotTimestamp = validation.NewError("validation_is_datetime", "must be a valid datetime")
)

// claimField maps the accepted lower-case keys of one claim attribute onto
// ClaimInput. The first key is the one reported in validation errors.
type claimField struct {
	keys     []string
	required bool
	decode   func(raw json.RawMessage, in *models.ClaimInput) error
}

// claimFields is the alias table. Keys are compared after LowercaseKeys.
var claimFields = []claimField{
	{
		keys:     []string{"service date", "servicedate"},
		required: true,
		decode: func(raw json.RawMessage, in *models.ClaimInput) (err error) {
			in.ServiceDate, err = parseTimestamp(raw)
			return err
		},
	},
	{
		keys:     []string{"submitted procedure", "submittedprocedure"},
		required: true,
		decode: func(raw json.RawMessage, in *models.ClaimInput) (err error) {
			in.SubmittedProcedure, err = parseString(raw)
			return err
		},
	},
	{
		keys: []string{"quadrant"},
		decode: func(raw json.RawMessage, in *models.ClaimInput) error {
			quadrant, err := parseString(raw)
			if err != nil {
				return err
			}
			in.Quadrant = &quadrant
			return nil
		},
	},
	{
		keys:     []string{"plan/group #", "plangroup"},
		required: true,
		decode: func(raw json.RawMessage, in *models.ClaimInput) (err error) {
			in.PlanGroup, err = parseString(raw)
			return err
		},
	},
	{
		keys:     []string{"subscriber #", "subscriber"},
		required: true,
		decode: func(raw json.RawMessage, in *models.ClaimInput) (err error) {
			in.Subscriber, err = parseString(raw)
			return err
		},
	},
	{
		keys:     []string{"provider npi", "providernpi"},
		required: true,
		decode: func(raw json.RawMessage, in *models.ClaimInput) (err error) {
			in.ProviderNPI, err = parseInteger(raw)
			return err
		},
	},
	{
		keys:     []string{"provider fees", "providerfees"},
		required: true,
		decode: func(raw json.RawMessage, in *models.ClaimInput) (err error) {
			in.ProviderFees, err = models.ParseMoney(raw)
			return err
		},
	},
	{
		keys:     []string{"allowed fees", "allowedfees"},
		required: true,
		decode: func(raw json.RawMessage, in *models.ClaimInput) (err error) {
			in.AllowedFees, err = models.ParseMoney(raw)
			return err
		},
	},
	{
		keys:     []string{"member coinsurance", "membercoinsurance"},
		required: true,
		decode: func(raw json.RawMessage, in *models.ClaimInput) (err error) {
			in.MemberCoinsurance, err = models.ParseMoney(raw)
			return err
		},
	},
	{
		keys:     []string{"member copay", "membercopay"},
		required: true,
		decode: func(raw json.RawMessage, in *models.ClaimInput) (err error) {
			in.MemberCopay, err = models.ParseMoney(raw)
			return err
		},
	},
}

// DecodeClaimInput maps a normalized JSON claim onto ClaimInput. Every field
// problem is collected into a single *StructuralError.
func DecodeClaimInput(body []byte) (models.ClaimInput, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil || doc == nil {
		return models.ClaimInput{}, &StructuralError{Fields: validation.Errors{"body": errNotObject}}
	}

	var in models.ClaimInput
	errs := validation.Errors{}
	for _, field := range claimFields {
		raw, ok := lookupField(doc, field.keys)
		if !ok {
			if field.required {
				errs[field.keys[0]] = validation.ErrRequired
			}
			continue
		}
		if err := field.decode(raw, &in); err != nil {
			errs[field.keys[0]] = err
		}
	}
	if len(errs) > 0 {
		return models.ClaimInput{}, &StructuralError{Fields: errs}
	}
	return in, nil
}

// lookupField returns the first present, non-null value among keys.
func lookupField(doc map[string]json.RawMessage, keys []string) (json.RawMessage, bool) {
	for _, key := range keys {
		raw, ok := doc[key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		return raw, true
	}
	return nil, false
}

func parseString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", errNotString
	}
	return s, nil
}

// parseInteger accepts JSON integers, integral numbers such as 1234567890.0
// and strings holding either.
func parseInteger(raw json.RawMessage) (int64, error) {
	text := strings.TrimSpace(string(raw))
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, errNotInteger
		}
		text = strings.TrimSpace(s)
	}
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n, nil
	}
	d, err := models.ParseDecimal(text)
	if err != nil || !d.IsInteger() {
		return 0, errNotInteger
	}
	if d.LessThan(decimal.NewFromInt(-1<<63)) || d.GreaterThan(decimal.NewFromInt(1<<63-1)) {
		return 0, errNotInteger
	}
	return d.IntPart(), nil
}

// timestampLayouts are tried in order. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Numeric timestamps must fall within years 1 to 9999, the range time.Time
// renders as RFC 3339 and PostgreSQL timestamptz stores.
var (
	minUnixSeconds = decimal.NewFromInt(time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC).Unix())
	maxUnixSeconds = decimal.NewFromInt(time.Date(9999, 12, 31, 23, 59, 59, 999999999, time.UTC).Unix() + 1)
)

// parseTimestamp accepts ISO-8601 strings or a JSON number of Unix seconds.
func parseTimestamp(raw json.RawMessage) (time.Time, error) {
	text := strings.TrimSpace(string(raw))
	if !strings.HasPrefix(text, `"`) {
		seconds, err := models.ParseDecimal(text)
		if err != nil || seconds.LessThan(minUnixSeconds) || !seconds.LessThan(maxUnixSeconds) {
			return time.Time{}, errNotTimestamp
		}
		whole := seconds.IntPart()
		nanos := seconds.Sub(decimal.NewFromInt(whole)).Shift(9).IntPart()
		return time.Unix(whole, nanos).UTC(), nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, errNotTimestamp
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errNotTimestamp
}
