package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kasuganosora/campaign-table/apperr"
	"github.com/kasuganosora/campaign-table/audit"
	"github.com/kasuganosora/campaign-table/cache"
	"github.com/kasuganosora/campaign-table/config"
	mw "github.com/kasuganosora/campaign-table/middleware"
	"github.com/kasuganosora/campaign-table/model"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const sessionTimeout = 2 * time.Second

// AuthHandler handles authentication REST endpoints.
type AuthHandler struct {
	db     *gorm.DB
	cache  cache.Cache
	sec    config.SecurityConfig
	audit  *audit.Service
	logger *zap.Logger
}

// NewAuthHandler creates a new AuthHandler. auditSvc may be nil.
func NewAuthHandler(db *gorm.DB, c cache.Cache, sec config.SecurityConfig, auditSvc *audit.Service, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{db: db, cache: c, sec: sec, audit: auditSvc, logger: logger}
}

type loginRequest struct {
	Email    string `json:"email"    binding:"required,email,max=128"`
	Password string `json:"password" binding:"required,min=1,max=72"`
}

type userView struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Login handles POST /api/auth/login. Accounts are created with the CLI;
// unknown emails and wrong passwords get the same answer.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var acc model.Account
	err := h.db.WithContext(c.Request.Context()).Where("email = ?", email).First(&acc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		h.audit.Log(audit.Entry{Actor: mw.Actor(c), Action: "auth.login", Payload: gin.H{"email": email}, Error: "unknown email"})
		respondError(c, apperr.Unauthenticated("invalid credentials"))
		return
	}
	if err != nil {
		respondError(c, apperr.WrapWithCode(err, apperr.CodeUnavailable, "account lookup failed"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(req.Password)); err != nil {
		h.audit.Log(audit.Entry{Actor: mw.Actor(c), Action: "auth.login", Payload: gin.H{"email": email}, Error: "wrong password"})
		respondError(c, apperr.Unauthenticated("invalid credentials"))
		return
	}

	token, err := h.openSession(c.Request.Context(), acc.ID, acc.Role)
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now()
	if err := h.db.Model(&acc).Updates(map[string]interface{}{
		"last_login_at": now,
		"last_login_ip": c.ClientIP(),
	}).Error; err != nil {
		h.logger.Warn("last login update failed", zap.Int64("account_id", acc.ID), zap.Error(err))
	}
	actor := mw.Actor(c)
	actor.AccountID = &acc.ID
	h.audit.Log(audit.Entry{Actor: actor, Action: "auth.login"})

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userView{ID: acc.ID, Email: acc.Email, Role: acc.Role},
	})
}

// openSession signs a token and registers it in the session cache.
func (h *AuthHandler) openSession(ctx context.Context, accountID int64, role string) (string, error) {
	token, err := mw.GenerateToken(accountID, role, h.sec.JWTSecret, h.sec.JWTTTLH)
	if err != nil {
		return "", apperr.Wrap(err, "token error")
	}
	ctx, cancel := context.WithTimeout(ctx, sessionTimeout)
	defer cancel()
	if err := h.cache.Set(ctx, mw.SessionKey(token), strconv.FormatInt(accountID, 10), h.sec.JWTTTLH); err != nil {
		return "", apperr.WrapWithCode(err, apperr.CodeUnavailable, "session store unavailable")
	}
	return token, nil
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), sessionTimeout)
	defer cancel()
	if err := h.cache.Del(ctx, mw.SessionKey(mw.GetToken(c))); err != nil {
		respondError(c, apperr.WrapWithCode(err, apperr.CodeUnavailable, "session store unavailable"))
		return
	}
	h.audit.Log(audit.Entry{Actor: mw.Actor(c), Action: "auth.logout"})
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Refresh handles POST /api/auth/refresh: the current token is revoked and
// a new one issued.
func (h *AuthHandler) Refresh(c *gin.Context) {
	accountID := mw.GetAccountID(c)
	if accountID == 0 {
		respondError(c, apperr.Unauthenticated("unauthorized"))
		return
	}
	token, err := h.openSession(c.Request.Context(), accountID, mw.GetRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), sessionTimeout)
	defer cancel()
	if err := h.cache.Del(ctx, mw.SessionKey(mw.GetToken(c))); err != nil {
		h.logger.Warn("old session not revoked", zap.Int64("account_id", accountID), zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
