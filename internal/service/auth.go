package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/ereminvs/webshop/internal/models"
	"github.com/ereminvs/webshop/internal/repo"
	pkg_hash "github.com/ereminvs/webshop/pkg/hash"
	"github.com/ereminvs/webshop/pkg/logging"
	"github.com/ereminvs/webshop/pkg/tokens"
)

const minPasswordLen = 8

// AuthService owns credentials: passwords at rest, access tokens and
// refresh tokens. Secrets and lifetimes come in at construction.
type AuthService struct {
	Repo          *repo.GormRepo
	JWTSecret     []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type AuthResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	User         *models.User
}

func (s *AuthService) IssueAccessToken(userID uint, role string) (string, time.Time, error) {
	exp := time.Now().Add(s.AccessTTL)
	token, err := tokens.SignAccessToken(FormatID(userID), role, exp, s.JWTSecret)
	return token, exp, err
}

// IssueRefreshToken signs the token and stores only its sha256 digest with
// an explicit expiry.
func (s *AuthService) IssueRefreshToken(ctx context.Context, userID uint) (string, time.Time, error) {
	exp := time.Now().Add(s.RefreshTTL)
	token, err := tokens.SignRefreshToken(FormatID(userID), exp, s.RefreshSecret)
	if err != nil {
		return "", time.Time{}, err
	}

	claims, err := tokens.RefreshClaimsFromToken(token, s.RefreshSecret)
	if err != nil {
		return "", time.Time{}, err
	}

	record := models.RefreshToken{
		UserID:    userID,
		TokenHash: tokens.Sha256Hex(token),
		JTI:       claims.ID,
		ExpiresAt: exp.Unix(),
	}
	if err := s.Repo.AddRefreshToken(ctx, &record); err != nil {
		return "", time.Time{}, err
	}

	return token, exp, nil
}

func (s *AuthService) issuePair(ctx context.Context, user *models.User) (*AuthResult, error) {
	accessToken, accessExp, err := s.IssueAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	refreshToken, refreshExp, err := s.IssueRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		User:         user,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" || name == "" {
		return nil, fmt.Errorf("%w: email, password and name are required", ErrValidation)
	}
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if len(password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	}

	pwHash, err := pkg_hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := models.User{
		Email:        email,
		PasswordHash: pwHash,
		Name:         name,
		Role:         models.RoleCustomer,
	}
	if err := s.Repo.CreateUserWithCart(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		l.Error("register_error", "error", err)
		return nil, err
	}

	result, err := s.issuePair(ctx, &user)
	if err != nil {
		l.Error("register_error", "reason", "cannot issue tokens", "error", err)
		return nil, err
	}

	l.Info("register_success", "user_id", user.ID)
	return result, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	// Unknown email and wrong password produce the same error so callers
	// cannot enumerate accounts.
	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		l.Error("login_error", "error", err)
		return nil, err
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	result, err := s.issuePair(ctx, user)
	if err != nil {
		l.Error("login_error", "reason", "cannot issue tokens", "error", err)
		return nil, err
	}

	l.Info("login_success", "user_id", user.ID)
	return result, nil
}

// VerifyAccessToken checks signature and expiry. Pure, no storage access.
func (s *AuthService) VerifyAccessToken(token string) (*tokens.AccessClaims, error) {
	claims, err := tokens.AccessClaimsFromToken(token, s.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// VerifyRefreshToken fails closed: any signature, subject, lookup or
// expiry mismatch yields false.
func (s *AuthService) VerifyRefreshToken(ctx context.Context, userID uint, token string) bool {
	claims, err := tokens.RefreshClaimsFromToken(token, s.RefreshSecret)
	if err != nil {
		return false
	}
	if claims.Subject != FormatID(userID) {
		return false
	}

	stored, err := s.Repo.FindRefreshToken(ctx, userID, tokens.Sha256Hex(token))
	if err != nil {
		return false
	}
	if stored.ExpiresAt < time.Now().Unix() {
		return false
	}
	return true
}

// RefreshAccessToken exchanges a valid refresh token for a new access
// token. The refresh token itself is not rotated.
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, time.Time, error) {
	sub, err := tokens.SubjectUnverified(refreshToken)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: malformed refresh token", ErrInvalidToken)
	}
	userID, err := ParseID(sub)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: malformed subject", ErrInvalidToken)
	}

	if !s.VerifyRefreshToken(ctx, userID, refreshToken) {
		return "", time.Time{}, fmt.Errorf("%w: invalid or expired refresh token", ErrInvalidToken)
	}

	// Role is read from the user record, not the old token, so a role
	// change takes effect at the next refresh.
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", time.Time{}, fmt.Errorf("%w: user", ErrNotFound)
		}
		return "", time.Time{}, err
	}

	return s.IssueAccessToken(user.ID, user.Role)
}

// Logout purges every stored refresh token of the token's owner. Always
// succeeds from the caller's perspective.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	sub, err := tokens.SubjectUnverified(refreshToken)
	if err != nil {
		return
	}
	userID, err := ParseID(sub)
	if err != nil {
		return
	}
	if err := s.Repo.DeleteRefreshTokensForUser(ctx, userID); err != nil {
		l.Error("logout_error", "error", err)
	}
}

func FormatID(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func ParseID(s string) (uint, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	return uint(v), err
}
