package routes_test

import (
	"ClaimProcess/config"
	"ClaimProcess/ratelimit"
	"ClaimProcess/repositories"
	"ClaimProcess/routes"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validClaim = `{
	"service date": "2018-03-28 00:00:00",
	"submitted procedure": "D0180",
	"quadrant": null,
	"Plan/Group #": "GRP-1000",
	"Subscriber #": "3730189502",
	"Provider NPI": 1497775530,
	"provider fees": "100.00",
	"Allowed fees": "100.00",
	"member coinsurance": "0.00",
	"member copay": "0.00"
}`

func newServer(t *testing.T) http.Handler {
	t.Helper()
	cfg := &config.AppConfig{
		GlobalRPS:      1000,
		GlobalBurst:    1000,
		AllowedOrigins: []string{"http://localhost:3000"},
		MaxBodyBytes:   config.DefaultMaxBodyBytes,
	}
	return routes.SetupRoutes(cfg, routes.Dependencies{
		ClaimRepository: repositories.NewMemoryClaimRepository(),
		TopFeesLimiter:  ratelimit.NewMemoryLimiter(ratelimit.Policy{Limit: 10, Window: time.Minute}),
		Log:             zerolog.Nop(),
	})
}

func claimBody(fields map[string]interface{}) string {
	body := map[string]interface{}{
		"service date":        "2018-03-28T00:00:00",
		"submitted procedure": "D0180",
		"plan/group #":        "GRP-1000",
		"subscriber #":        "3730189502",
		"provider npi":        1497775530,
		"provider fees":       100.00,
		"allowed fees":        100.00,
		"member coinsurance":  0,
		"member copay":        0,
	}
	for k, v := range fields {
		if v == nil {
			delete(body, k)
			continue
		}
		body[k] = v
	}
	out, _ := json.Marshal(body)
	return string(out)
}

func postClaim(server http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/claim/add", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func getTop(server http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader(rec.Body.Bytes()))
	dec.UseNumber()
	require.NoError(t, dec.Decode(v))
}

func TestCreateClaim(t *testing.T) {
	server := newServer(t)

	rec := postClaim(server, claimBody(map[string]interface{}{
		"provider fees":      "130.00",
		"allowed fees":       "65.00",
		"member coinsurance": "16.25",
		"member copay":       "0.00",
		"quadrant":           "UR",
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var raw map[string]interface{}
	decode(t, rec, &raw)

	assert.Equal(t, json.Number("1"), raw["id"])
	assert.Equal(t, json.Number("81.25"), raw["netfee"])
	assert.Equal(t, json.Number("130.00"), raw["provider fees"])
	assert.Equal(t, json.Number("1497775530"), raw["provider npi"])
	assert.Equal(t, "UR", raw["quadrant"])
	assert.Equal(t, "D0180", raw["submitted procedure"])
	assert.Equal(t, "GRP-1000", raw["plan/group #"])
	assert.Equal(t, "3730189502", raw["subscriber #"])
}

// casedClaim renders validClaim's fields with every key passed through rename.
func casedClaim(rename func(string) string) string {
	fields := [][2]string{
		{"service date", `"2018-03-28 00:00:00"`},
		{"submitted procedure", `"D0180"`},
		{"quadrant", `"UR"`},
		{"plan/group #", `"GRP-1000"`},
		{"subscriber #", `"3730189502"`},
		{"provider npi", `1497775530`},
		{"provider fees", `"100.00"`},
		{"allowed fees", `"100.00"`},
		{"member coinsurance", `"0.00"`},
		{"member copay", `"0.00"`},
	}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%q:%s", rename(f[0]), f[1]))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func TestCreateClaim_KeyCaseVariants(t *testing.T) {
	variants := map[string]func(string) string{
		"lower": strings.ToLower,
		"upper": strings.ToUpper,
		"mixed": func(key string) string {
			out := []rune(key)
			for i := range out {
				if i%2 == 0 {
					out[i] = []rune(strings.ToUpper(string(out[i])))[0]
				}
			}
			return string(out)
		},
	}

	server := newServer(t)
	results := map[string]map[string]interface{}{}
	for name, rename := range variants {
		rec := postClaim(server, casedClaim(rename))
		require.Equal(t, http.StatusOK, rec.Code, "%s: %s", name, rec.Body.String())

		var claim map[string]interface{}
		decode(t, rec, &claim)
		delete(claim, "id")
		results[name] = claim
	}

	assert.Equal(t, results["lower"], results["upper"])
	assert.Equal(t, results["lower"], results["mixed"])
	assert.Equal(t, "UR", results["upper"]["quadrant"])
	assert.Equal(t, json.Number("0.00"), results["upper"]["netfee"])

	rec := postClaim(server, validClaim)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var claim map[string]interface{}
	decode(t, rec, &claim)
	assert.Nil(t, claim["quadrant"])
}

func TestCreateClaim_BodyTooLarge(t *testing.T) {
	server := newServer(t)

	body := `{"quadrant":"` + strings.Repeat("U", 2<<20) + `"}`
	rec := postClaim(server, body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCreateClaim_MissingFields(t *testing.T) {
	server := newServer(t)

	rec := postClaim(server, claimBody(map[string]interface{}{
		"provider npi":        nil,
		"submitted procedure": nil,
	}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body map[string]map[string]interface{}
	decode(t, rec, &body)
	assert.Contains(t, body["detail"], "provider npi")
	assert.Contains(t, body["detail"], "submitted procedure")

	rec = postClaim(server, claimBody(map[string]interface{}{"quadrant": nil}))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestCreateClaim_Procedure(t *testing.T) {
	server := newServer(t)

	rec := postClaim(server, claimBody(map[string]interface{}{"submitted procedure": "X0180"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"Invalid submitted procedure"}`, rec.Body.String())

	rec = postClaim(server, claimBody(map[string]interface{}{"submitted procedure": "D4346"}))
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestCreateClaim_ProviderNPI(t *testing.T) {
	tests := []struct {
		npi  interface{}
		want int
	}{
		{npi: 123456789, want: http.StatusBadRequest},
		{npi: 12345678901, want: http.StatusBadRequest},
		{npi: "not-a-number", want: http.StatusUnprocessableEntity},
		{npi: 1234567890.5, want: http.StatusUnprocessableEntity},
		{npi: 1234567890, want: http.StatusOK},
	}

	server := newServer(t)
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.npi), func(t *testing.T) {
			rec := postClaim(server, claimBody(map[string]interface{}{"provider npi": tt.npi}))
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestCreateClaim_NegativeNetFeeIsNotStored(t *testing.T) {
	server := newServer(t)

	rec := postClaim(server, claimBody(map[string]interface{}{
		"provider fees": 50,
		"allowed fees":  100,
	}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"Calculated net fee is negative"}`, rec.Body.String())

	rec = getTop(server, "/top10netfees")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateClaim_InvalidJSON(t *testing.T) {
	server := newServer(t)

	assert.Equal(t, http.StatusUnprocessableEntity, postClaim(server, `{"service date":`).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, postClaim(server, `[1,2,3]`).Code)
}

func TestTopNetFees(t *testing.T) {
	server := newServer(t)

	for i := 0; i < 20; i++ {
		rec := postClaim(server, claimBody(map[string]interface{}{
			"provider fees": fmt.Sprintf("%d.00", 122+i),
			"allowed fees":  "0",
		}))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := getTop(server, "/top10netfees")
	require.Equal(t, http.StatusOK, rec.Code)

	var claims []map[string]interface{}
	decode(t, rec, &claims)
	require.Len(t, claims, 10)
	for i, claim := range claims {
		assert.Equal(t, json.Number(fmt.Sprintf("%d.00", 141-i)), claim["netfee"])
	}
}

func TestTopNetFees_RateLimited(t *testing.T) {
	server := newServer(t)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, getTop(server, "/top10netfees").Code)
	}
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, getTop(server, "/top10netfees/").Code)
	}

	rec := getTop(server, "/top10netfees")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"Rate limit exceeded: 10 per 1 minute"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusTooManyRequests, getTop(server, "/top10netfees/").Code)

	// Claim submission is not limited.
	assert.Equal(t, http.StatusOK, postClaim(server, validClaim).Code)
}

func TestHealthAndRequestID(t *testing.T) {
	server := newServer(t)

	rec := getTop(server, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec = httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}
