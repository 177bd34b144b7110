package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mercatus/webstore/internal/logging"
	"github.com/mercatus/webstore/internal/mykafka"
	"github.com/mercatus/webstore/internal/repo"
	"github.com/mercatus/webstore/internal/tokens"
	"github.com/mercatus/webstore/internal/transport"
)

type AuthHandler struct {
	Repo      *repo.GormRepo
	Producer  *mykafka.Producer
	JWTSecret []byte
	TokenTTL  time.Duration
}

func (h *AuthHandler) publish(c echo.Context, topic string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, topic, fmt.Sprint(event["customerID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// Token exchanges form credentials for a bearer access token. The same 401
// covers unknown email and wrong password.
func (h *AuthHandler) Token(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.token")

	email := c.FormValue("username")
	password := c.FormValue("password")

	customer, err := h.Repo.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidCredentials) {
			l.Warn("token_failed", "status", 401, "reason", "invalid credentials")
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
			return echo.NewHTTPError(http.StatusUnauthorized, "incorrect username or password")
		}
		l.Error("token_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	accessToken, err := tokens.CreateAccessToken(customer.Email, h.TokenTTL, h.JWTSecret)
	if err != nil {
		l.Error("token_failed", "status", 500, "reason", "cannot sign token", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	event := map[string]any{
		"type":       "customer_logged_in",
		"customerID": customer.ID,
		"email":      customer.Email,
	}
	h.publish(c, "customer_events", event)

	l.Info("token_issued")
	return c.JSON(http.StatusOK, transport.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
	})
}
