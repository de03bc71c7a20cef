package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"kidsweek-go/internal/domain/member"
	"kidsweek-go/pkg/logger"
)

type contextKey int

const memberKey contextKey = iota

// MemberResolver resolves the opaque bearer credential carried in the
// Authorization header to a member record.
type MemberResolver interface {
	GetByToken(ctx context.Context, token string) (*member.Member, error)
}

type TokenAuth struct {
	members MemberResolver
	log     logger.Logger
}

func NewTokenAuth(members MemberResolver, log logger.Logger) *TokenAuth {
	return &TokenAuth{members: members, log: log}
}

func (a *TokenAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromHeader(r.Header.Get("Authorization"))
		if token == "" {
			unauthorized(w, "missing token")
			return
		}

		m, err := a.members.GetByToken(r.Context(), token)
		if err != nil {
			unauthorized(w, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithMember(r.Context(), m)))
	})
}

// tokenFromHeader accepts both a bare token and the Bearer scheme.
func tokenFromHeader(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	parts := strings.Fields(value)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return ""
}

func WithMember(ctx context.Context, m *member.Member) context.Context {
	return context.WithValue(ctx, memberKey, m)
}

func MemberFromContext(ctx context.Context) (*member.Member, bool) {
	m, ok := ctx.Value(memberKey).(*member.Member)
	if !ok || m == nil {
		return nil, false
	}
	return m, true
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"result": false,
		"error":  message,
	})
}
