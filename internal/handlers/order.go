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
	authmw "github.com/mercatus/webstore/internal/middleware/auth"
	"github.com/mercatus/webstore/internal/mykafka"
	"github.com/mercatus/webstore/internal/repo"
	"github.com/mercatus/webstore/internal/transport"
	"github.com/mercatus/webstore/internal/util"
)

type OrderHandler struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
}

func (h *OrderHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "order_events", fmt.Sprint(event["orderID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// CreateOrder only accepts orders for the authenticated customer.
// TotalAmount is stored as submitted, it is not checked against the line
// items.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	current := authmw.CurrentCustomer(c)
	if current == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	}

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if req.CustomerID != current.ID {
		l.Warn("create_order_error", "status", 403, "reason", "customer mismatch", "customer_id", req.CustomerID)
		return echo.NewHTTPError(http.StatusForbidden, "cannot create orders for other customers")
	}

	order, err := h.Repo.CreateOrder(ctx, req.CustomerID, req.TotalAmount, req.ProductIDs)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("create_order_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		l.Error("create_order_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	event := map[string]any{
		"type":       "order_created",
		"orderID":    order.ID,
		"customerID": order.CustomerID,
		"total":      order.TotalAmount,
	}
	h.publish(c, event)

	l.Info("create_order_success", "order_id", order.ID)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	current := authmw.CurrentCustomer(c)
	if current == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		l.Warn("get_order_error", "status", 400, "reason", "id is not integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not integer")
	}

	order, err := h.Repo.GetOrder(ctx, uint(id))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("get_order_error", "status", 404, "reason", "order not found")
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		}
		l.Error("get_order_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	if order.CustomerID != current.ID {
		l.Warn("get_order_error", "status", 403, "reason", "customer mismatch")
		return echo.NewHTTPError(http.StatusForbidden, "cannot read orders of other customers")
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_orders")

	current := authmw.CurrentCustomer(c)
	if current == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	orders, err := h.Repo.ListOrders(ctx, current.ID, offset, limit)
	if err != nil {
		l.Error("get_orders_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, orders)
}
