package main

import (
	"fmt"
	"log"
	"os"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/nubuzz/nubuzz/app/controllers"
	"github.com/nubuzz/nubuzz/app/repository"
	"github.com/nubuzz/nubuzz/internal/pkg/cache"
	"github.com/nubuzz/nubuzz/internal/pkg/database"
	"github.com/nubuzz/nubuzz/internal/pkg/env"
	"github.com/nubuzz/nubuzz/internal/pkg/router"
	"github.com/nubuzz/nubuzz/internal/pkg/scheduler"
)

func main() {
	app := NewApplication()

	sched := scheduler.Start(controllers.NewsIngestService())
	defer sched.Stop()

	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "8000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()
	database.SetupDatabase()
	repository.InitializeFactory(database.GetDB())
	cache.SetupCache()

	// Find the project root when started from cmd/nubuzz
	basePaths := []string{"./", "../../"}
	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}

	app := fiber.New(fiber.Config{
		AppName: "nubuzz",
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics
	app.Get("/metrics", monitor.New())

	// SWAGGER / OPENAPI
	if basePath != "" {
		openAPICfg := swagger.Config{
			BasePath: "/docs/api/",
			FilePath: basePath + "public/docs/v1/openapi.yml",
			Path:     "v1",
		}
		app.Use(swagger.New(openAPICfg))
	}

	// ROUTER
	router.InstallRouter(app)

	return app
}
