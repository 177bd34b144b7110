package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/mercatus/webstore/internal/models"
)

func (env *testEnv) countRows(t *testing.T, table string) int64 {
	var n int64
	require.NoError(t, env.DB.Table(table).Count(&n).Error)
	return n
}

func TestCreateOrderMissingProduct(t *testing.T) {
	env := newTestEnv(t)

	id := register(t, env, "a@x.com", "Customer A", "password")
	token := login(t, env, "a@x.com", "password")

	load := map[string]any{
		"customer_id":  id,
		"total_amount": 10.0,
		"product_ids":  []uint{42},
	}
	_, c := env.doJSONRequest(http.MethodPost, "/orders", load, token)
	err := env.Auth.RequireAuth(env.O.CreateOrder)(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusNotFound, he.Code)

	require.Zero(t, env.countRows(t, "orders"), "failed order must not persist a row")
	require.Zero(t, env.countRows(t, "order_products"), "failed order must not persist associations")
}

func TestCreateOrderPartialProductsRollsBack(t *testing.T) {
	env := newTestEnv(t)

	id := register(t, env, "a@x.com", "Customer A", "password")
	token := login(t, env, "a@x.com", "password")

	product := models.Product{Name: "p", Description: "d", Price: 1}
	env.DB.Create(&product)

	load := map[string]any{
		"customer_id":  id,
		"total_amount": 10.0,
		"product_ids":  []uint{product.ID, 42},
	}
	_, c := env.doJSONRequest(http.MethodPost, "/orders", load, token)
	err := env.Auth.RequireAuth(env.O.CreateOrder)(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusNotFound, he.Code)

	require.Zero(t, env.countRows(t, "orders"))
	require.Zero(t, env.countRows(t, "order_products"), "valid product must not stay attached after rollback")
}

func TestCreateOrderForOtherCustomerForbidden(t *testing.T) {
	env := newTestEnv(t)

	register(t, env, "a@x.com", "Customer A", "password")
	otherID := register(t, env, "b@x.com", "Customer B", "password")
	token := login(t, env, "a@x.com", "password")

	product := models.Product{Name: "p", Description: "d", Price: 1}
	env.DB.Create(&product)

	load := map[string]any{
		"customer_id":  otherID,
		"total_amount": 1.0,
		"product_ids":  []uint{product.ID},
	}
	_, c := env.doJSONRequest(http.MethodPost, "/orders", load, token)
	err := env.Auth.RequireAuth(env.O.CreateOrder)(c)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusForbidden, he.Code)

	require.Zero(t, env.countRows(t, "orders"))
}

func TestOrderEndToEnd(t *testing.T) {
	env := newTestEnv(t)

	id := register(t, env, "a@x.com", "Customer A", "password")
	token := login(t, env, "a@x.com", "password")

	productLoad := map[string]any{
		"name":        "test_product",
		"description": "test_description",
		"price":       9.99,
	}
	recP, cP := env.doJSONRequest(http.MethodPost, "/products", productLoad, token)
	require.NoError(t, env.Auth.RequireAuth(env.P.CreateProduct)(cP))
	require.Equal(t, http.StatusCreated, recP.Code)

	var product models.Product
	require.NoError(t, json.Unmarshal(recP.Body.Bytes(), &product))

	orderLoad := map[string]any{
		"customer_id":  id,
		"total_amount": 9.99,
		"product_ids":  []uint{product.ID},
	}
	recO, cO := env.doJSONRequest(http.MethodPost, "/orders", orderLoad, token)
	require.NoError(t, env.Auth.RequireAuth(env.O.CreateOrder)(cO))
	require.Equal(t, http.StatusCreated, recO.Code)

	var created models.Order
	require.NoError(t, json.Unmarshal(recO.Body.Bytes(), &created))
	require.NotZero(t, created.ID)

	recG, cG := env.doJSONRequest(http.MethodGet, "/orders/1", nil, token)
	cG.SetParamNames("id")
	cG.SetParamValues("1")
	require.NoError(t, env.Auth.RequireAuth(env.O.GetOrder)(cG))
	require.Equal(t, http.StatusOK, recG.Code)

	var fetched models.Order
	require.NoError(t, json.Unmarshal(recG.Body.Bytes(), &fetched))
	require.Equal(t, created.ID, fetched.ID)
	require.Equal(t, id, fetched.CustomerID)
	require.Equal(t, 9.99, fetched.TotalAmount)
	require.False(t, fetched.OrderDate.IsZero())
	require.Len(t, fetched.Products, 1)
	require.Equal(t, product.ID, fetched.Products[0].ID)
	require.Equal(t, "test_product", fetched.Products[0].Name)
	require.Equal(t, 9.99, fetched.Products[0].Price)
}

func TestGetOrderOfOtherCustomerForbidden(t *testing.T) {
	env := newTestEnv(t)

	idA := register(t, env, "a@x.com", "Customer A", "password")
	register(t, env, "b@x.com", "Customer B", "password")
	tokenA := login(t, env, "a@x.com", "password")
	tokenB := login(t, env, "b@x.com", "password")

	product := models.Product{Name: "p", Description: "d", Price: 1}
	env.DB.Create(&product)

	load := map[string]any{
		"customer_id":  idA,
		"total_amount": 1.0,
		"product_ids":  []uint{product.ID},
	}
	recO, cO := env.doJSONRequest(http.MethodPost, "/orders", load, tokenA)
	require.NoError(t, env.Auth.RequireAuth(env.O.CreateOrder)(cO))
	require.Equal(t, http.StatusCreated, recO.Code)

	_, cG := env.doJSONRequest(http.MethodGet, "/orders/1", nil, tokenB)
	cG.SetParamNames("id")
	cG.SetParamValues("1")
	err := env.Auth.RequireAuth(env.O.GetOrder)(cG)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError")
	require.Equal(t, http.StatusForbidden, he.Code)
}
