package auth

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ansel1/merry"
	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

type contextKey string

const operatorKey contextKey = "operator"

const (
	CookieName      = "session_token"
	DefaultOperator = "operator"
	DefaultTTL      = 7 * 24 * time.Hour
)

var ErrUnauthorized = merry.New("unauthorized").WithHTTPCode(http.StatusUnauthorized)

// Authenv guards the operator-only endpoints. There is a single operator
// whose bcrypt hash comes from the environment.
type Authenv struct {
	JWTkey       []byte
	Login        string
	PasswordHash string
	TTL          time.Duration
}

type IPRateLimiter struct {
	ips map[string]*rate.Limiter
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

type Loginrequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*rate.Limiter),
		r:   r,
		b:   b,
	}
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	limiter, exists := i.ips[ip]
	if !exists {
		limiter = rate.NewLimiter(i.r, i.b)
		i.ips[ip] = limiter
	}
	return limiter
}

// LimitMiddleware rejects clients that exceed their token bucket.
func (i *IPRateLimiter) LimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !i.getLimiter(clientIP(r)).Allow() {
			http.Error(w, "Too Many Requests. Try again later.", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func (env *Authenv) login() string {
	if env.Login == "" {
		return DefaultOperator
	}
	return env.Login
}

func (env *Authenv) ttl() time.Duration {
	if env.TTL <= 0 {
		return DefaultTTL
	}
	return env.TTL
}

// NewToken signs a session token for login.
func (env *Authenv) NewToken(login string, now time.Time) (string, time.Time, error) {
	exp := now.Add(env.ttl())
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"login": login,
		"iat":   now.Unix(),
		"exp":   exp.Unix(),
	})
	s, err := token.SignedString(env.JWTkey)
	return s, exp, err
}

// Verify returns the login carried by a valid token.
func (env *Authenv) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return env.JWTkey, nil
	})
	if err != nil || !token.Valid {
		return "", merry.Append(ErrUnauthorized, "invalid token").WithCause(err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", merry.Append(ErrUnauthorized, "invalid claims")
	}
	login, ok := claims["login"].(string)
	if !ok || login != env.login() {
		return "", merry.Append(ErrUnauthorized, "unknown operator")
	}
	return login, nil
}

func bearer(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

func (env *Authenv) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := bearer(r)
		if tok == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		login, err := env.Verify(tok)
		if err != nil {
			log.WithError(err).Debug("rejected token")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), operatorKey, login)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Operator returns the authenticated login of ctx.
func Operator(ctx context.Context) (string, bool) {
	login, ok := ctx.Value(operatorKey).(string)
	return login, ok && login != ""
}

func (env *Authenv) addCookie(w http.ResponseWriter, token string, exp time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  exp,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (env *Authenv) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req Loginrequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	req.Login = strings.TrimSpace(req.Login)
	if req.Login == "" || req.Password == "" {
		http.Error(w, "Login and password required", http.StatusBadRequest)
		return
	}
	if env.PasswordHash == "" {
		http.Error(w, "Login disabled", http.StatusServiceUnavailable)
		return
	}
	if req.Login != env.login() ||
		bcrypt.CompareHashAndPassword([]byte(env.PasswordHash), []byte(req.Password)) != nil {
		log.WithField("login", req.Login).Warn("failed login")
		http.Error(w, "Invalid login or password", http.StatusUnauthorized)
		return
	}

	token, exp, err := env.NewToken(req.Login, time.Now())
	if err != nil {
		log.WithError(err).Error("sign token")
		http.Error(w, "Token error", http.StatusInternalServerError)
		return
	}
	env.addCookie(w, token, exp)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LoginResponse{Token: token, Expires: exp})
}
