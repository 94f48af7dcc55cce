package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	"github.com/oksasatya/go-ddd-blog/pkg/apperror"
	"github.com/oksasatya/go-ddd-blog/pkg/helpers"
)

const msgInvalidCredentials = "invalid credentials"

// AuthService issues and checks tokens. Sessions may be nil, in which case
// access tokens are trusted until they expire.
type AuthService struct {
	Users    *UserService
	JWT      *helpers.JWTManager
	Sessions SessionStore
	Logger   *logrus.Logger
}

func NewAuthService(users *UserService, jwt *helpers.JWTManager, sessions SessionStore, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, JWT: jwt, Sessions: sessions, Logger: logger}
}

type TokenPair struct {
	AccessToken        string    `json:"accessToken"`
	AccessTokenExpiry  time.Time `json:"accessTokenExpiresAt"`
	RefreshToken       string    `json:"refreshToken"`
	RefreshTokenExpiry time.Time `json:"refreshTokenExpiresAt"`
}

// Signup creates a regular user after checking the email is free.
func (s *AuthService) Signup(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	if _, found, err := s.Users.FindByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if found {
		return nil, apperror.NewConflict("email already registered")
	}
	in.Role = entity.RoleUser
	id, err := s.Users.Create(ctx, in)
	if err != nil {
		return nil, err
	}
	return s.Users.GetByID(ctx, id)
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, found, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if !found || !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, apperror.NewUnauthenticated(msgInvalidCredentials)
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, TokenPair, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := s.IssueTokens(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

// IssueTokens generates access/refresh tokens and records a session in Redis.
func (s *AuthService) IssueTokens(ctx context.Context, u *entity.User) (TokenPair, error) {
	sid := uuid.NewString()
	pair, err := s.generatePair(u.ID, sid)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate tokens failed")
		}
		return TokenPair{}, apperror.Wrap(err, "generate tokens")
	}
	if s.Sessions != nil {
		sess := helpers.Session{UserID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role), SID: sid}
		if err := s.Sessions.Save(ctx, sess); err != nil {
			return TokenPair{}, apperror.Wrap(err, "save session")
		}
	}
	return pair, nil
}

// Refresh rotates the session id and returns a fresh pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (TokenPair, int64, error) {
	claims, err := s.JWT.ParseRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, 0, apperror.NewUnauthenticated("invalid refresh token")
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperror.Is(err, apperror.NotFound) {
			return TokenPair{}, 0, apperror.NewUnauthenticated(msgInvalidCredentials)
		}
		return TokenPair{}, 0, err
	}
	if s.Sessions != nil {
		sess, err := s.Sessions.Get(ctx, u.ID)
		if err != nil || sess.SID != claims.SessionID {
			return TokenPair{}, 0, apperror.NewUnauthenticated("session expired")
		}
	}
	sid := uuid.NewString()
	pair, err := s.generatePair(u.ID, sid)
	if err != nil {
		return TokenPair{}, 0, apperror.Wrap(err, "generate tokens")
	}
	if s.Sessions != nil {
		if err := s.Sessions.Rotate(ctx, u.ID, sid); err != nil {
			return TokenPair{}, 0, apperror.Wrap(err, "rotate session")
		}
	}
	return pair, u.ID, nil
}

func (s *AuthService) Logout(ctx context.Context, userID int64) error {
	if s.Sessions == nil {
		return nil
	}
	if err := s.Sessions.Delete(ctx, userID); err != nil {
		return apperror.Wrap(err, "delete session")
	}
	return nil
}

// ResolveActor turns an access token into the acting user.
func (s *AuthService) ResolveActor(ctx context.Context, accessToken string) (*entity.Actor, error) {
	claims, err := s.JWT.ParseAccessToken(accessToken)
	if err != nil {
		return nil, apperror.NewUnauthenticated("invalid access token")
	}
	if s.Sessions != nil {
		sess, err := s.Sessions.Get(ctx, claims.UserID)
		if errors.Is(err, helpers.ErrSessionNotFound) || (err == nil && sess.SID != claims.SessionID) {
			return nil, apperror.NewUnauthenticated("session not found")
		}
		if err != nil {
			return nil, apperror.Wrap(err, "load session")
		}
		return &entity.Actor{ID: sess.UserID, Name: sess.Name, Email: sess.Email, Role: entity.Role(sess.Role)}, nil
	}
	u, err := s.Users.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperror.Is(err, apperror.NotFound) {
			return nil, apperror.NewUnauthenticated("user no longer exists")
		}
		return nil, err
	}
	return &entity.Actor{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}, nil
}

func (s *AuthService) generatePair(userID int64, sid string) (TokenPair, error) {
	access, aexp, err := s.JWT.GenerateAccessToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, rexp, err := s.JWT.GenerateRefreshToken(userID, sid)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, AccessTokenExpiry: aexp, RefreshToken: refresh, RefreshTokenExpiry: rexp}, nil
}
