package middleware

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

type ctxKey int

const (
	tokenCtxKey ctxKey = iota
	ownerCtxKey
)

const ownerKey = "client_owner"

// ClientContext extracts the caller's backend bearer token and a stable
// owner id, and threads both through the request context so request-scoped
// code (token sources, session slots) can read them without seeing gin.
func ClientContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerFromHeader(c.GetHeader("Authorization"))
		owner := ownerFor(token, c)

		ctx := context.WithValue(c.Request.Context(), tokenCtxKey, token)
		ctx = context.WithValue(ctx, ownerCtxKey, owner)
		c.Request = c.Request.WithContext(ctx)
		c.Set(ownerKey, owner)
		c.Next()
	}
}

// BearerToken is a backend token source reading the current request's
// Authorization header. ("", nil) means the caller has no session.
func BearerToken(ctx context.Context) (string, error) {
	if v, ok := ctx.Value(tokenCtxKey).(string); ok {
		return v, nil
	}
	return "", nil
}

// Owner returns the session-slot owner for this request.
func Owner(c *gin.Context) string {
	if v, ok := c.Get(ownerKey); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return "ip:" + c.ClientIP()
}

// OwnerFromContext mirrors Owner for code that only has a context.
func OwnerFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ownerCtxKey).(string); ok {
		return v
	}
	return ""
}

func bearerFromHeader(h string) string {
	h = strings.TrimSpace(h)
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// ownerFor derives the slot owner: the user id baked into the token when
// logged in, an explicit client id header otherwise, the client IP as the
// last resort. The token is NOT verified here; it only names the slot, the
// backend still authorizes every privileged call.
func ownerFor(token string, c *gin.Context) string {
	if token != "" {
		claims := jwt.MapClaims{}
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
			if id, ok := claims["user_id"]; ok {
				return "user:" + claimString(id)
			}
			if sub, ok := claims["sub"]; ok {
				return "user:" + claimString(sub)
			}
		}
	}
	if cid := strings.TrimSpace(c.GetHeader("X-Client-ID")); cid != "" {
		return "client:" + cid
	}
	return "ip:" + c.ClientIP()
}

func claimString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// JSON numbers decode as float64; user ids are integral
		return strconv.FormatInt(int64(t), 10)
	default:
		return ""
	}
}
