package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Skotchmaster/ecommerce_catalog/internal/models"
)

const TokenTTL = 20 * time.Minute

var ErrMalformedClaims = errors.New("malformed token payload")

type Claims struct {
	Username   string `json:"username"`
	IsAdmin    bool   `json:"is_admin"`
	IsSupplier bool   `json:"is_supplier"`
	IsCustomer bool   `json:"is_customer"`
	jwt.RegisteredClaims
}

// TokenService is the auth gate: it signs access tokens for users and turns
// raw bearer tokens back into identities.
type TokenService struct {
	Secret []byte
}

func (t *TokenService) SignAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Username:   user.Username,
		IsAdmin:    user.IsAdmin,
		IsSupplier: user.IsSupplier,
		IsCustomer: user.IsCustomer,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.Secret)
}

func (t *TokenService) ParseToken(rawToken string) (Identity, error) {
	token, err := jwt.ParseWithClaims(rawToken, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signature method: %v", tok.Header["alg"])
		}
		return t.Secret, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("invalid access token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, ErrMalformedClaims
	}
	if claims.Subject == "" || claims.Username == "" || claims.ExpiresAt == nil {
		return Identity{}, ErrMalformedClaims
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return Identity{}, ErrMalformedClaims
	}

	return Identity{
		UserID:   uint(userID),
		Username: claims.Username,
		Role:     RoleFromFlags(claims.IsAdmin, claims.IsSupplier, claims.IsCustomer),
	}, nil
}
