package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Saumajitt/grc-dashboard/internal/model"
)

// TokenExp — время жизни bearer-токена.
const TokenExp = time.Hour

// Claims — полезная нагрузка JWT: id пользователя и роль на момент выдачи.
// Роль из токена носит справочный характер: хендлеры перечитывают пользователя
// из БД, поэтому смена роли действует сразу.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64      `json:"uid"`
	Role   model.Role `json:"role"`
}

type contextKey string

const (
	userIDKey contextKey = "user_id"
	roleKey   contextKey = "role"
)

// BuildJWTString выпускает подписанный HS256 токен с (userID, role) и сроком TokenExp.
func BuildJWTString(userID int64, role model.Role, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenExp)),
		},
		UserID: userID,
		Role:   role,
	})
	return token.SignedString([]byte(secret))
}

// ParseToken verifies the signature and expiry and returns the claims.
func ParseToken(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// WithAuth читает заголовок Authorization: Bearer и кладёт claims в контекст.
// Отсутствующий или невалидный токен не обрывает запрос — хендлеры сами
// решают, нужен ли им аутентифицированный пользователь (и отвечают 401).
func WithAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if strings.HasPrefix(authz, "Bearer ") {
				raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
				if claims, err := ParseToken(raw, secret); err == nil {
					ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
					ctx = context.WithValue(ctx, roleKey, claims.Role)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUserIDFromContext возвращает id пользователя из контекста запроса.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

// GetRoleFromContext возвращает роль на момент выдачи токена.
func GetRoleFromContext(ctx context.Context) (model.Role, bool) {
	role, ok := ctx.Value(roleKey).(model.Role)
	return role, ok
}
