package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoToken      = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims - то, что выдает внешний сервис авторизации. Subject - id пользователя (владельца)
type Claims struct {
	jwt.RegisteredClaims
}

// Validator проверяет HS256 токены
type Validator struct {
	secret []byte
	now    func() time.Time
}

var (
	instance *Validator
	once     sync.Once
)

// Init задает общий Validator; повторные вызовы ничего не меняют
func Init(secret string) *Validator {
	once.Do(func() {
		instance = NewValidator(secret)
	})
	return instance
}

func NewValidator(secret string) *Validator {
	return &Validator{secret: []byte(secret), now: time.Now}
}

// Issue подписывает токен. Нужен для локальной разработки и тестов
func (v *Validator) Issue(subject string, ttl time.Duration) (string, error) {
	now := v.now()
	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:  subject,
		IssuedAt: jwt.NewNumericDate(now),
	}}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Validate проверяет алгоритм, подпись, exp и nbf. Пустой секрет не принимает ничего
func (v *Validator) Validate(token string) (*Claims, error) {
	if v == nil || len(v.secret) == 0 {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return v.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// FromRequest достает и проверяет токен из заголовка Authorization
func (v *Validator) FromRequest(r *http.Request) (*Claims, error) {
	h := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return nil, ErrNoToken
	}
	return v.Validate(strings.TrimSpace(token))
}

type ctxKey struct{}

// WithOwner кладет id владельца в контекст запроса
func WithOwner(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, ownerID)
}

// OwnerFrom - id владельца из контекста
func OwnerFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}
