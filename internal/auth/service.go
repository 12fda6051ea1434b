package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/frahmantamala/epic-crm/internal"
	"github.com/frahmantamala/epic-crm/internal/core/datamodel/user"
	"github.com/golang-jwt/jwt/v5"
)

type CredentialRepository interface {
	FindUserByEmail(ctx context.Context, email string) (*user.User, error)
}

type TokenGenerator interface {
	GenerateAccessToken(id Identity) (string, time.Time, error)
	ValidateToken(token string) (*Claims, error)
}

// Service issues and verifies access tokens.
type Service struct {
	repo           CredentialRepository
	tokenGenerator TokenGenerator
	logger         *slog.Logger
}

func NewService(repo CredentialRepository, tokenGen TokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		repo:           repo,
		tokenGenerator: tokenGen,
		logger:         logger,
	}
}

// Authenticate validates credentials and returns a signed access token.
// Unknown email and wrong password fail the same way.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindUserByEmail(ctx, dto.Email)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to load credentials", "error", err, "email", dto.Email)
		return nil, internal.NewInternalError("failed to load credentials", err)
	}
	if u == nil || !VerifyPassword(u.PasswordHash, dto.Password) {
		s.logger.WarnContext(ctx, "authentication failed", "email", dto.Email)
		return nil, internal.ErrInvalidCredentials
	}

	id := Identity{UserID: u.ID, Email: u.Email, Role: u.Role}
	token, expiresAt, err := s.tokenGenerator.GenerateAccessToken(id)
	if err != nil {
		return nil, internal.NewInternalError("failed to sign access token", err)
	}

	s.logger.InfoContext(ctx, "user authenticated", "user_id", u.ID, "role", u.Role)
	return &LoginResult{AccessToken: token, ExpiresAt: expiresAt, Identity: id}, nil
}

// Verify turns an access token back into the identity it was issued for.
func (s *Service) Verify(token string) (Identity, error) {
	if token == "" {
		return Identity{}, internal.ErrTokenMissing
	}
	claims, err := s.tokenGenerator.ValidateToken(token)
	if err != nil {
		return Identity{}, err
	}
	return claims.Identity(), nil
}

type JWTTokenGenerator struct {
	AccessTokenSecret []byte
	AccessTokenTTL    time.Duration
	now               func() time.Time
}

func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	return &JWTTokenGenerator{
		AccessTokenSecret: []byte(secret),
		AccessTokenTTL:    ttl,
		now:               time.Now,
	}
}

func (j *JWTTokenGenerator) GenerateAccessToken(id Identity) (string, time.Time, error) {
	now := j.now()
	expiresAt := now.Add(j.AccessTokenTTL)

	claims := &Claims{
		UserID: id.UserID,
		Email:  id.Email,
		Role:   id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   strconv.FormatInt(id.UserID, 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.AccessTokenSecret)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.AccessTokenSecret, nil
	}, jwt.WithTimeFunc(j.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, internal.ErrInvalidToken
}
