package controllers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nubuzz/nubuzz/app/models"
	"github.com/nubuzz/nubuzz/app/repository"
	"github.com/nubuzz/nubuzz/internal/pkg/database"
	"github.com/nubuzz/nubuzz/internal/pkg/router"
)

// newTestApp wires the full router against a per-test in-memory database.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	t.Setenv("CACHE_ENABLED", "false")

	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.UserPreference{},
		&models.AuthToken{},
		&models.Article{},
	))

	database.SetDB(db)
	repository.InitializeFactory(db)

	app := fiber.New()
	router.InstallRouter(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func registerUser(t *testing.T, app *fiber.App, username, email string) string {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/register", fiber.Map{
		"username":  username,
		"email":     email,
		"password":  "sekret99",
		"password2": "sekret99",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var body struct {
		Token string `json:"token"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Token, 40)
	return body.Token
}
