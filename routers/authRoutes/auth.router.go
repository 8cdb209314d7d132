package authRoutes

import (
	authController "bookshelf/controllers/auth"
	authValidator "bookshelf/validators/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	authGroup := app.Group("/api/auth")

	authGroup.Post("/signup", authValidator.Signup(), authController.Signup(db))
	authGroup.Post("/login", authValidator.Login(), authController.Login(db))
}
