package middleware

import (
	"github.com/ahmetcoskunkizilkaya/catalog/internal/config"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS opens the read-only export endpoints to other origins.
func CORS(cfg *config.Config) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowMethods:     "GET, HEAD, OPTIONS",
		AllowCredentials: false,
	})
}
