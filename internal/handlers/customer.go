package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mercatus/webstore/internal/logging"
	"github.com/mercatus/webstore/internal/models"
	"github.com/mercatus/webstore/internal/mykafka"
	"github.com/mercatus/webstore/internal/repo"
	"github.com/mercatus/webstore/internal/transport"
)

type CustomerHandler struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
}

func customerResponse(customer *models.Customer) transport.CustomerResponse {
	return transport.CustomerResponse{
		ID:       customer.ID,
		Email:    customer.Email,
		FullName: customer.FullName,
	}
}

func (h *CustomerHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "customer_events", fmt.Sprint(event["customerID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *CustomerHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.register")

	var req transport.CreateCustomerRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	customer, err := h.Repo.CreateCustomer(ctx, req.Email, req.FullName, req.Password)
	if err != nil {
		if errors.Is(err, repo.ErrEmailTaken) {
			l.Warn("register_error", "status", 400, "reason", "email already registered")
			return echo.NewHTTPError(http.StatusBadRequest, "email already registered")
		}
		l.Error("register_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	event := map[string]any{
		"type":       "customer_registered",
		"customerID": customer.ID,
		"email":      customer.Email,
	}
	h.publish(c, event)

	l.Info("register_success")
	return c.JSON(http.StatusCreated, customerResponse(customer))
}

func (h *CustomerHandler) GetCustomer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "customer.get_customer")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("get_customer_error", "status", 400, "reason", "id is not integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not integer")
	}

	customer, err := h.Repo.GetCustomer(ctx, uint(id))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("get_customer_error", "status", 404, "reason", "customer not found")
			return echo.NewHTTPError(http.StatusNotFound, "customer not found")
		}
		l.Error("get_customer_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, customerResponse(customer))
}
