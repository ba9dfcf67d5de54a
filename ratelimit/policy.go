package ratelimit

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Policy allows Limit calls per caller within any rolling Window.
type Policy struct {
	Limit  int
	Window time.Duration
}

var periods = map[string]time.Duration{
	"second": time.Second,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
}

// ParsePolicy reads "<count>/<period>" where period is second, minute, hour,
// day (optionally pluralised) or a Go duration such as "30s".
func ParsePolicy(s string) (Policy, error) {
	count, period, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return Policy{}, fmt.Errorf("rate limit %q: expected <count>/<period>", s)
	}
	limit, err := strconv.Atoi(strings.TrimSpace(count))
	if err != nil || limit <= 0 {
		return Policy{}, fmt.Errorf("rate limit %q: count must be a positive integer", s)
	}

	period = strings.ToLower(strings.TrimSpace(period))
	window, known := periods[strings.TrimSuffix(period, "s")]
	if !known {
		window, err = time.ParseDuration(period)
		if err != nil || window <= 0 {
			return Policy{}, fmt.Errorf("rate limit %q: unknown period %q", s, period)
		}
	}
	return Policy{Limit: limit, Window: window}, nil
}

// String renders the policy the way it is reported to rate limited callers,
// e.g. "10 per 1 minute".
func (p Policy) String() string {
	for name, d := range periods {
		if p.Window == d {
			return fmt.Sprintf("%d per 1 %s", p.Limit, name)
		}
	}
	return fmt.Sprintf("%d per %s", p.Limit, p.Window)
}
