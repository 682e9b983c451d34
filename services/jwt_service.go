package services

import (
	"errors"
	"time"

	"trello-project/microservices/planner-service/apperrors"
	"trello-project/microservices/planner-service/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/patrickmn/go-cache"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Claims struct {
	UserID string      `json:"userId"`
	Email  string      `json:"email"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

// Caller converts validated claims into the request's acting user.
func (c *Claims) Caller() (Caller, error) {
	id, err := primitive.ObjectIDFromHex(c.UserID)
	if err != nil {
		return Caller{}, apperrors.Unauthorized("token carries an invalid user id")
	}
	return Caller{ID: id, Role: c.Role}, nil
}

// JWTService issues and validates HS256 access tokens. Logged-out tokens stay
// in the revocation cache until they would have expired anyway.
type JWTService struct {
	secret  []byte
	ttl     time.Duration
	revoked *cache.Cache
	now     func() time.Time
}

func NewJWTService(secret string, ttl time.Duration) *JWTService {
	return &JWTService{
		secret:  []byte(secret),
		ttl:     ttl,
		revoked: cache.New(ttl, 10*time.Minute),
		now:     time.Now,
	}
}

func (s *JWTService) GenerateToken(user *models.User) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: user.ID.Hex(),
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", apperrors.Internal(err, "failed to sign token")
	}
	return token, nil
}

func (s *JWTService) ValidateToken(tokenStr string) (*Claims, error) {
	claims, err := s.parseToken(tokenStr)
	if err != nil {
		return nil, err
	}
	if _, revoked := s.revoked.Get(tokenStr); revoked {
		return nil, apperrors.Unauthorized("token has been revoked")
	}
	return claims, nil
}

// RevokeToken blacklists a valid token for the rest of its lifetime.
func (s *JWTService) RevokeToken(tokenStr string) error {
	claims, err := s.parseToken(tokenStr)
	if err != nil {
		return err
	}
	ttl := claims.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	s.revoked.Set(tokenStr, struct{}{}, ttl)
	return nil
}

func (s *JWTService) parseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, apperrors.Unauthorized("token has expired")
	}
	if err != nil || !token.Valid {
		return nil, apperrors.Unauthorized("invalid token")
	}
	return claims, nil
}
