package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-stock-pos/internal/model"
	"go-stock-pos/internal/repository"
	"go-stock-pos/internal/testutil"
	"go-stock-pos/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGuardedApp(t *testing.T) (*fiber.App, *jwt.Manager, *model.User, func(column string, value interface{})) {
	t.Helper()
	db := testutil.NewDB(t)
	user := testutil.CreateUser(t, db, "kasir")
	tokens := jwt.NewManager("test-secret", time.Hour, "test")

	app := fiber.New()
	app.Get("/private", RequireAuth(repository.NewUserRepo(db), tokens), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("user_name").(string))
	})

	set := func(column string, value interface{}) {
		require.NoError(t, db.Model(&model.User{}).Where("id = ?", user.ID).Update(column, value).Error)
	}
	return app, tokens, user, set
}

func get(t *testing.T, app *fiber.App, authorization string) int {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestRequireAuth(t *testing.T) {
	app, tokens, user, set := newGuardedApp(t)
	set("token_version", "v1")

	token, err := tokens.GenerateToken(user.ID, user.Email, user.FullName, "", nil, "v1")
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, get(t, app, "Bearer "+token))
	assert.Equal(t, http.StatusUnauthorized, get(t, app, ""))
	assert.Equal(t, http.StatusUnauthorized, get(t, app, token))
	assert.Equal(t, http.StatusUnauthorized, get(t, app, "Bearer garbage"))

	set("token_version", "v2")
	assert.Equal(t, http.StatusUnauthorized, get(t, app, "Bearer "+token))

	set("token_version", "v1")
	set("is_active", false)
	assert.Equal(t, http.StatusUnauthorized, get(t, app, "Bearer "+token))
}

func TestRequirePrivilege(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_privileges", []string{model.PrivSaleView})
		return c.Next()
	})
	ok := func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) }
	app.Get("/view", RequirePrivilege(model.PrivSaleView), ok)
	app.Get("/delete", RequirePrivilege(model.PrivSaleDelete), ok)
	app.Get("/any", RequireAnyPrivilege(model.PrivSaleDelete, model.PrivSaleView), ok)

	cases := map[string]int{
		"/view":   http.StatusOK,
		"/delete": http.StatusForbidden,
		"/any":    http.StatusOK,
	}
	for path, want := range cases {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, path)
	}
}

func TestRequirePrivilegeWithoutAuth(t *testing.T) {
	app := fiber.New()
	app.Get("/view", RequirePrivilege(model.PrivSaleView), func(c *fiber.Ctx) error { return nil })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/view", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
