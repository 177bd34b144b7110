package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mercatus/webstore/internal/db"
	authmw "github.com/mercatus/webstore/internal/middleware/auth"
	"github.com/mercatus/webstore/internal/mykafka"
	"github.com/mercatus/webstore/internal/repo"
)

type testEnv struct {
	T         *testing.T
	E         *echo.Echo
	DB        *gorm.DB
	Repo      *repo.GormRepo
	Auth      *authmw.Middleware
	A         *AuthHandler
	C         *CustomerHandler
	P         *ProductHandler
	O         *OrderHandler
	JWTSecret []byte
}

func InitTestDB(t *testing.T) *gorm.DB {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return gdb
}

func newTestEnv(t *testing.T) *testEnv {
	gdb := InitTestDB(t)
	secret := []byte("test_secret")
	r := &repo.GormRepo{DB: gdb}

	env := &testEnv{
		T:         t,
		E:         echo.New(),
		DB:        gdb,
		Repo:      r,
		Auth:      authmw.NewMiddleware(r, secret),
		JWTSecret: secret,
	}

	env.A = &AuthHandler{Repo: r, Producer: &mykafka.Producer{}, JWTSecret: secret, TokenTTL: 30 * time.Minute}
	env.C = &CustomerHandler{Repo: r, Producer: &mykafka.Producer{}}
	env.P = &ProductHandler{Repo: r, Producer: &mykafka.Producer{}}
	env.O = &OrderHandler{Repo: r, Producer: &mykafka.Producer{}}

	return env
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}, bearer string) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) doFormRequest(path string, form url.Values) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func register(t *testing.T, env *testEnv, email, fullName, password string) uint {
	load := map[string]string{
		"email":     email,
		"full_name": fullName,
		"password":  password,
	}
	rec, c := env.doJSONRequest(http.MethodPost, "/customers", load, "")
	require.NoError(t, env.C.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotZero(t, resp.ID)
	return resp.ID
}

func login(t *testing.T, env *testEnv, email, password string) string {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	rec, c := env.doFormRequest("/token", form)
	require.NoError(t, env.A.Token(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "bearer", resp.TokenType)
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}
