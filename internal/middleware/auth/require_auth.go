package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mercatus/webstore/internal/models"
	"github.com/mercatus/webstore/internal/repo"
	"github.com/mercatus/webstore/internal/tokens"
)

const customerContextKey = "customer"

type Middleware struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
}

func NewMiddleware(r *repo.GormRepo, secret []byte) *Middleware {
	return &Middleware{Repo: r, JWTSecret: secret}
}

func credentialsError(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
}

// RequireAuth resolves the bearer token to a customer row before the
// handler body runs. Signature, expiry and subject lookup must all pass.
func (m *Middleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		header := c.Request().Header.Get(echo.HeaderAuthorization)
		const prefix = "Bearer "
		if !strings.HasPrefix(header, prefix) {
			return credentialsError(c)
		}

		claims, err := tokens.AccessClaimsFromToken(strings.TrimPrefix(header, prefix), m.JWTSecret)
		if err != nil || claims.Subject == "" {
			return credentialsError(c)
		}

		customer, err := m.Repo.GetCustomerByEmail(c.Request().Context(), claims.Subject)
		if err != nil || customer == nil {
			return credentialsError(c)
		}

		c.Set(customerContextKey, customer)
		return next(c)
	}
}

// CurrentCustomer returns the customer resolved by RequireAuth, or nil on
// routes that skipped it.
func CurrentCustomer(c echo.Context) *models.Customer {
	if v, ok := c.Get(customerContextKey).(*models.Customer); ok {
		return v
	}
	return nil
}
