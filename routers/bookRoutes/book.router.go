package bookRoutes

import (
	bookController "bookshelf/controllers/book"
	"bookshelf/middleware"
	bookValidator "bookshelf/validators/book"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupBookRoutes(app *fiber.App, db *gorm.DB) {
	bookGroup := app.Group("/api/books")

	// Public listing and details
	bookGroup.Get("/", bookController.ListBooks(db))

	// Specific routes MUST come before /:id
	bookGroup.Get("/my-books", middleware.JWTMiddleware, bookController.MyBooks(db))

	bookGroup.Post("/", bookValidator.CreateBook(), middleware.JWTMiddleware, bookController.CreateBook(db))
	bookGroup.Get("/:id", bookController.GetBookDetails(db))
	bookGroup.Put("/:id", bookValidator.UpdateBook(), middleware.JWTMiddleware, bookController.UpdateBook(db))
	bookGroup.Delete("/:id", middleware.JWTMiddleware, bookController.DeleteBook(db))
}
