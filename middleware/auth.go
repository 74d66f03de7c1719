package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kasuganosora/campaign-table/apperr"
	"github.com/kasuganosora/campaign-table/audit"
	"github.com/kasuganosora/campaign-table/cache"
	"github.com/kasuganosora/campaign-table/config"
)

const (
	AccountIDKey = "account_id"
	RoleKey      = "role"
	TokenKey     = "token"
)

const sessionLookupTimeout = 2 * time.Second

// SessionKey is the cache key marking token as a live session.
func SessionKey(token string) string { return "session:" + token }

// VerifySession checks the token signature and that its session has not been
// revoked by a logout.
func VerifySession(ctx context.Context, sec config.SecurityConfig, c cache.Cache, token string) (*Claims, error) {
	if token == "" {
		return nil, apperr.Unauthenticated("missing token")
	}
	claims, err := ParseToken(token, sec.JWTSecret)
	if err != nil {
		return nil, apperr.Unauthenticated("invalid token")
	}
	cacheCtx, cancel := context.WithTimeout(ctx, sessionLookupTimeout)
	defer cancel()
	exists, err := c.Exists(cacheCtx, SessionKey(token))
	if err != nil || !exists {
		return nil, apperr.Unauthenticated("session expired")
	}
	return claims, nil
}

// Auth guards write routes: a Bearer JWT with a live session is required.
func Auth(sec config.SecurityConfig, c cache.Cache) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")

		claims, err := VerifySession(ctx.Request.Context(), sec, c, token)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": apperr.MessageOf(err)})
			return
		}
		SetClaims(ctx, claims, token)
		ctx.Next()
	}
}

// SetClaims stores an authenticated identity on the Gin context.
func SetClaims(c *gin.Context, claims *Claims, token string) {
	c.Set(AccountIDKey, claims.AccountID)
	c.Set(RoleKey, claims.Role)
	c.Set(TokenKey, token)
}

// GetAccountID retrieves the authenticated account ID from the Gin context.
func GetAccountID(c *gin.Context) int64 {
	return c.GetInt64(AccountIDKey)
}

func GetRole(c *gin.Context) string {
	return c.GetString(RoleKey)
}

func GetToken(c *gin.Context) string {
	return c.GetString(TokenKey)
}

// Actor is the identity behind the request, for the audit trail.
func Actor(c *gin.Context) audit.Actor {
	a := audit.Actor{TraceID: GetTraceID(c), IP: c.ClientIP()}
	if id := GetAccountID(c); id != 0 {
		a.AccountID = &id
	}
	return a
}

// ActorContext is the request context carrying Actor, so table events fired
// from it are attributed.
func ActorContext(c *gin.Context) context.Context {
	return audit.WithActor(c.Request.Context(), Actor(c))
}
