// Package middleware содержит HTTP middleware витрины SoleMates.
package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type contextKey string

const clientIDKey contextKey = "clientID"

const (
	clientCookieName = "solemates_client"
	clientCookieTTL  = 30 * 24 * time.Hour
)

// ClientMiddleware привязывает запрос к состоянию клиента по подписанному cookie.
// Клиент без cookie или с неверной подписью получает новый идентификатор.
type ClientMiddleware struct {
	secretKey []byte
}

// NewClientMiddleware создаёт middleware с указанным ключом подписи. Пустой ключ заменяется случайным.
func NewClientMiddleware(secret string) *ClientMiddleware {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			key = []byte(uuid.NewString())
		}
	}

	return &ClientMiddleware{secretKey: key}
}

// Middleware добавляет идентификатор клиента в контекст запроса.
func (m *ClientMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var (
			clientID string
			ok       bool
		)

		if cookie, err := r.Cookie(clientCookieName); err == nil {
			clientID, ok = m.parseCookie(cookie.Value)
		}
		if !ok {
			clientID = uuid.NewString()
			m.SetClientCookie(w, clientID)
		}

		ctx := context.WithValue(r.Context(), clientIDKey, clientID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SetClientCookie устанавливает cookie с подписанным идентификатором клиента.
func (m *ClientMiddleware) SetClientCookie(w http.ResponseWriter, clientID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     clientCookieName,
		Value:    clientID + "." + m.sign(clientID),
		Path:     "/",
		Expires:  time.Now().Add(clientCookieTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *ClientMiddleware) sign(clientID string) string {
	mac := hmac.New(sha256.New, m.secretKey)
	mac.Write([]byte(clientID))
	return hex.EncodeToString(mac.Sum(nil))
}

func (m *ClientMiddleware) parseCookie(value string) (string, bool) {
	id, signature, found := strings.Cut(value, ".")
	if !found {
		return "", false
	}

	if !hmac.Equal([]byte(signature), []byte(m.sign(id))) {
		return "", false
	}

	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}

	return id, true
}

// GetClientIDFromContext извлекает идентификатор клиента из контекста запроса.
func GetClientIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(clientIDKey).(string)
	return id, ok && id != ""
}

// WithClientID возвращает контекст с идентификатором клиента.
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, clientIDKey, clientID)
}
