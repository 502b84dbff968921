package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ansel1/merry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testEnv(t *testing.T) *Authenv {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	return &Authenv{JWTkey: []byte("test-key"), PasswordHash: string(hash)}
}

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
}

func TestTokenRoundTrip(t *testing.T) {
	env := testEnv(t)
	tok, exp, err := env.NewToken(DefaultOperator, time.Now())
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	login, err := env.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, DefaultOperator, login)

	other := &Authenv{JWTkey: []byte("other-key")}
	_, err = other.Verify(tok)
	assert.True(t, merry.Is(err, ErrUnauthorized))

	old, _, err := env.NewToken(DefaultOperator, time.Now().Add(-30*24*time.Hour))
	require.NoError(t, err)
	_, err = env.Verify(old)
	assert.True(t, merry.Is(err, ErrUnauthorized))

	stranger, _, err := env.NewToken("mallory", time.Now())
	require.NoError(t, err)
	_, err = env.Verify(stranger)
	assert.True(t, merry.Is(err, ErrUnauthorized))
}

func TestLoginAndMiddleware(t *testing.T) {
	env := testEnv(t)

	w := httptest.NewRecorder()
	env.LoginHandler(w, httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"login": "operator", "password": "s3cret"}`)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)

	var seen string
	protected := env.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = Operator(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	w = httptest.NewRecorder()
	protected.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, DefaultOperator, seen)

	req = httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	protected.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	protected.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/runs", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRejected(t *testing.T) {
	env := testEnv(t)
	tests := []struct {
		body string
		code int
	}{
		{`{"login": "operator", "password": "wrong"}`, http.StatusUnauthorized},
		{`{"login": "root", "password": "s3cret"}`, http.StatusUnauthorized},
		{`{"login": "operator"}`, http.StatusBadRequest},
		{`not json`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		env.LoginHandler(w, httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(tt.body)))
		assert.Equal(t, tt.code, w.Code, tt.body)
	}

	w := httptest.NewRecorder()
	(&Authenv{JWTkey: []byte("k")}).LoginHandler(w, httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"login": "operator", "password": "x"}`)))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestRateLimiter(t *testing.T) {
	l := NewIPRateLimiter(0.001, 2)
	h := l.LimitMiddleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/heater/fields", nil)
		req.RemoteAddr = "10.0.0.1:5000" + string(rune('0'+i))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{200, 200, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/api/heater/fields", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
