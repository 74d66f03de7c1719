package seed

import (
	"context"
	"errors"
	"strings"

	"github.com/kasuganosora/campaign-table/apperr"
	"github.com/kasuganosora/campaign-table/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const minPasswordLen = 8

// CreateAccount registers a login with a bcrypt-hashed password.
func CreateAccount(ctx context.Context, db *gorm.DB, email, password, role string) (*model.Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperr.InvalidArgument("a valid email is required")
	}
	if len(password) < minPasswordLen {
		return nil, apperr.InvalidArgumentf("password must be at least %d characters", minPasswordLen)
	}
	switch role {
	case "":
		role = model.RoleUser
	case model.RoleUser, model.RoleAdmin:
	default:
		return nil, apperr.InvalidArgumentf("unknown role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(err, "hash password")
	}
	acc := &model.Account{Email: email, PasswordHash: string(hash), Role: role}
	if err := db.WithContext(ctx).Create(acc).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") ||
			strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return nil, apperr.InvalidArgumentf("account %s already exists", email)
		}
		return nil, apperr.WrapWithCode(err, apperr.CodeUnavailable, "create account")
	}
	return acc, nil
}

// EnsureAdmin creates the bootstrap admin account unless one with that email
// exists. Empty credentials disable it.
func EnsureAdmin(ctx context.Context, db *gorm.DB, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}
	var n int64
	err := db.WithContext(ctx).Model(&model.Account{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).Count(&n).Error
	if err != nil {
		return false, apperr.WrapWithCode(err, apperr.CodeUnavailable, "look up admin account")
	}
	if n > 0 {
		return false, nil
	}
	if _, err := CreateAccount(ctx, db, email, password, model.RoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}
