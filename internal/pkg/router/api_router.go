package router

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/nubuzz/nubuzz/app/controllers"
	"github.com/nubuzz/nubuzz/internal/pkg/middleware"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
	}))

	controllers.InitializeNewsController()

	// news
	api.Get("/fetch-news", controllers.HandleFetchNews)
	api.Get("/news", controllers.HandleListNews)
	api.Get("/summary/:id", controllers.HandleSummarizeArticle)

	// auth
	api.Post("/register", controllers.HandleAuthRegister)
	api.Post("/login", controllers.HandleAuthLogin)
	api.Post("/logout", middleware.TokenAuthMiddleware(), controllers.HandleAuthLogout)

	// preferences
	api.Post("/user/preferences", middleware.TokenAuthMiddleware(), controllers.HandleUpdatePreferences)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
