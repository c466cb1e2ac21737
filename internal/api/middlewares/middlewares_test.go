package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markdave123-py/resumeapp/internal/logger"
	"github.com/markdave123-py/resumeapp/internal/metrics"
)

const testSecret = "test-secret"

func signed(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return tok
}

func TestJWTMiddleware(t *testing.T) {
	var gotSubject string
	h := JWTMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSubject, _ = SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	exp := time.Now().Add(time.Hour).Unix()
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + signed(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "cli", "exp": exp}), http.StatusNoContent},
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic Zm9vOmJhcg==", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signed(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "cli", "exp": exp}), http.StatusUnauthorized},
		{"expired", "Bearer " + signed(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "cli", "exp": time.Now().Add(-time.Hour).Unix()}), http.StatusUnauthorized},
		{"no subject", "Bearer " + signed(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"exp": exp}), http.StatusUnauthorized},
		{"wrong alg", "Bearer " + signed(t, jwt.SigningMethodHS512, []byte(testSecret), jwt.MapClaims{"sub": "cli", "exp": exp}), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSubject = ""
			req := httptest.NewRequest(http.MethodGet, "/users", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusNoContent {
				assert.Equal(t, "cli", gotSubject)
			} else {
				assert.Empty(t, gotSubject)
			}
		})
	}
}

func TestMetrics_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/skill/{name}/users", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/skill/{name}/users", "404")
	before := testutil.ToFloat64(counter)

	for _, skill := range []string{"python", "go", "sql"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/skill/"+skill+"/users", nil))
	}

	assert.Equal(t, before+3, testutil.ToFloat64(counter))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger.Init(logger.Config{Level: "info", Format: "json", Output: &buf})
	t.Cleanup(func() { logger.Init(logger.Config{Level: "info"}) })

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(RequestLogger)
	r.Get("/users", func(w http.ResponseWriter, r *http.Request) {
		logger.Ctx(r.Context()).Info().Msg("inside handler")
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	req.Header.Set(chimw.RequestIDHeader, "req-42")
	r.ServeHTTP(httptest.NewRecorder(), req)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var inner, access map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &inner))
	require.NoError(t, json.Unmarshal(lines[1], &access))

	assert.Equal(t, "req-42", inner["request_id"])
	assert.Equal(t, "req-42", access["request_id"])
	assert.Equal(t, "http request", access["message"])
	assert.Equal(t, float64(http.StatusTeapot), access["status"])
	assert.Equal(t, "/users", access["path"])
}
