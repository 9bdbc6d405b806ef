package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", errors.New("missing Authorization header")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", errors.New("malformed Authorization header")
	}
	return parts[1], nil
}

// RequireUser authenticates the request and stores the caller's identity on
// the echo context for handlers to pick up via CurrentIdentity.
func (t *TokenService) RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, err := bearerToken(c)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
		}

		ident, err := t.ParseToken(raw)
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				return echo.NewHTTPError(http.StatusUnauthorized, "token expired")
			case errors.Is(err, ErrMalformedClaims):
				return echo.NewHTTPError(http.StatusBadRequest, "malformed token payload")
			default:
				return echo.NewHTTPError(http.StatusUnauthorized, "could not validate user")
			}
		}

		SetIdentity(c, ident)
		return next(c)
	}
}

// RequireAdmin is RequireUser plus an admin-role check.
func (t *TokenService) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return t.RequireUser(func(c echo.Context) error {
		ident, ok := CurrentIdentity(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "could not validate user")
		}
		switch ident.Role {
		case RoleAdmin:
			return next(c)
		case RoleSupplier, RoleCustomer, RoleGuest:
			return echo.NewHTTPError(http.StatusForbidden, "You don't have admin permission")
		default:
			return echo.NewHTTPError(http.StatusForbidden, "You don't have admin permission")
		}
	})
}

func SetIdentity(c echo.Context, ident Identity) {
	c.Set(identityKey, ident)
}

func CurrentIdentity(c echo.Context) (Identity, bool) {
	ident, ok := c.Get(identityKey).(Identity)
	return ident, ok
}
