package services

import (
	"errors"
	"fmt"
	"time"

	"foodtruck/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "foodtruck-auth"
	tokenAudience = "foodtruck-api"
)

// TokenClaims is the payload of an access token.
type TokenClaims struct {
	Role    models.Role `json:"role"`
	TruckID string      `json:"truck_id,omitempty"`
	jwt.RegisteredClaims
}

// Actor turns verified claims into the identity handlers act as.
func (c *TokenClaims) Actor() (models.Actor, error) {
	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return models.Actor{}, fmt.Errorf("invalid subject: %w", err)
	}
	role, err := models.ParseRole(string(c.Role))
	if err != nil {
		return models.Actor{}, err
	}

	actor := models.Actor{UserID: userID, Role: role}
	if c.TruckID != "" {
		truckID, err := uuid.Parse(c.TruckID)
		if err != nil {
			return models.Actor{}, fmt.Errorf("invalid truck_id: %w", err)
		}
		actor.FoodTruckID = &truckID
	}
	if role.WorksAtTruck() && actor.FoodTruckID == nil {
		return models.Actor{}, errors.New("truck_id is required for truck roles")
	}
	return actor, nil
}

type TokenService interface {
	Issue(user *models.User) (*models.TokenResponse, error)
	Parse(token string) (*TokenClaims, error)
	SigningKey() []byte
}

type tokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret string, ttl time.Duration) TokenService {
	return &tokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs an HS256 access token for user.
func (s *tokenService) Issue(user *models.User) (*models.TokenResponse, error) {
	now := s.now()
	claims := TokenClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID.String(),
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	if user.FoodTruckID != nil {
		claims.TruckID = user.FoodTruckID.String()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign JWT: %w", err)
	}

	return &models.TokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int(s.ttl.Seconds()),
		UserID:      user.ID.String(),
		Role:        user.Role,
		IssuedAt:    now,
	}, nil
}

func (s *tokenService) Parse(token string) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("token validation failed: %w", err)
	}

	claims, ok := parsed.Claims.(*TokenClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func (s *tokenService) SigningKey() []byte {
	return s.secret
}
