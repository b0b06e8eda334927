package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrExpiredToken     = errors.New("token expired")
	ErrInvalidToken     = errors.New("invalid token")
)

type Service interface {
	GenerateToken(subject, gameID string, role Role, ttl time.Duration) (string, error)
	ValidateToken(tokenString string) (*GameClaims, error)
	// GenerateScorerLink returns a link that opens a game with scoring rights.
	GenerateScorerLink(subject, gameID string) (string, error)
}

type service struct {
	secret     []byte
	issuer     string
	defaultTTL time.Duration
	baseURL    string
}

func NewService(secret, issuer string, defaultTTL time.Duration, baseURL string) Service {
	return &service{
		secret:     []byte(secret),
		issuer:     issuer,
		defaultTTL: defaultTTL,
		baseURL:    baseURL,
	}
}

func (s *service) GenerateToken(subject, gameID string, role Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &GameClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Game: gameID,
		Role: string(role),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, nil
}

func (s *service) ValidateToken(tokenString string) (*GameClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &GameClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return s.secret, nil
	}, opts...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, ErrInvalidSignature
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*GameClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

func (s *service) GenerateScorerLink(subject, gameID string) (string, error) {
	token, err := s.GenerateToken(subject, gameID, RoleScorer, s.defaultTTL)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/games/%s?t=%s", s.baseURL, gameID, token), nil
}
