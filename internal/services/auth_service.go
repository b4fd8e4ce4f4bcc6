package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	"storefront/internal/repos"
	"storefront/internal/validate"
)

var ErrBadCreds = errors.New("invalid username or password")

type AuthService struct {
	DB      *sqlx.DB
	Users   *repos.UserRepo
	Tokens  *TokenManager
	Revoked *repos.TokenRepo
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type TokenPair struct {
	Access    string       `json:"access"`
	Refresh   string       `json:"refresh"`
	ExpiresIn int64        `json:"expires_in"`
	User      *domain.User `json:"user"`
}

func (s *AuthService) issue(u *domain.User) (TokenPair, error) {
	access, err := s.Tokens.Access(u.ID)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := s.Tokens.Refresh(u.ID)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh, ExpiresIn: s.Tokens.AccessTTLSeconds(), User: u}, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (TokenPair, error) {
	u, err := s.Users.ByUsername(ctx, username)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return TokenPair{}, ErrBadCreds
		}
		return TokenPair{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return TokenPair{}, ErrBadCreds
	}
	return s.issue(u)
}

// Register creates a customer account and signs it in. Username and
// email are unique regardless of case.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (TokenPair, error) {
	username, ok := validate.Username(req.Username)
	if !ok {
		return TokenPair{}, domain.Validation("username must be 1-150 letters, digits or _.@+-")
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return TokenPair{}, domain.Validation("a valid email is required")
	}
	if !validate.Password(req.Password) {
		return TokenPair{}, domain.Validation("password must be 8-72 characters with upper, lower, digit and symbol")
	}

	var u domain.User
	err := repos.InTx(ctx, s.DB, func(tx *sqlx.Tx) error {
		users := s.Users.WithTx(tx)
		if _, err := users.ByUsername(ctx, username); err == nil {
			return domain.Validation("username %s is already taken", username)
		} else if domain.KindOf(err) != domain.KindNotFound {
			return err
		}
		if _, err := users.ByEmail(ctx, email); err == nil {
			return domain.Validation("email is already registered")
		} else if domain.KindOf(err) != domain.KindNotFound {
			return err
		}
		h, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u = domain.User{ID: uuid.NewString(), Username: username, Email: email, Hash: string(h)}
		return users.Create(ctx, u)
	})
	if err != nil {
		return TokenPair{}, err
	}
	return s.issue(&u)
}

// Logout revokes the refresh token so it can no longer be refreshed. The
// token must belong to u.
func (s *AuthService) Logout(ctx context.Context, u *domain.User, refresh string) error {
	claims, err := s.refreshClaims(ctx, refresh)
	if err != nil {
		return err
	}
	if claims.UserID != u.ID {
		return ErrInvalidToken
	}
	return s.Revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (s *AuthService) refreshClaims(ctx context.Context, refresh string) (*Claims, error) {
	claims, err := s.Tokens.ValidateRefresh(refresh)
	if err != nil {
		return nil, err
	}
	revoked, err := s.Revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Refresh trades a valid, unrevoked refresh token for a new pair.
func (s *AuthService) Refresh(ctx context.Context, refresh string) (TokenPair, error) {
	claims, err := s.refreshClaims(ctx, refresh)
	if err != nil {
		return TokenPair{}, err
	}
	u, err := s.Users.ByID(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, ErrInvalidToken
	}
	return s.issue(u)
}

// CurrentUser resolves a bearer access token to the stored user.
func (s *AuthService) CurrentUser(ctx context.Context, access string) (*domain.User, error) {
	claims, err := s.Tokens.ValidateAccess(access)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.ByID(ctx, claims.UserID)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return u, nil
}
