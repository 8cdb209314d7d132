package reviewRoutes

import (
	reviewController "bookshelf/controllers/review"
	"bookshelf/middleware"
	reviewValidator "bookshelf/validators/review"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupReviewRoutes(app *fiber.App, db *gorm.DB) {
	reviewGroup := app.Group("/api/reviews")

	// Specific routes MUST come before /:bookId
	reviewGroup.Get("/my-reviews", middleware.JWTMiddleware, reviewController.MyReviews(db))

	reviewGroup.Post("/:bookId", reviewValidator.CreateReview(), middleware.JWTMiddleware, reviewController.AddReview(db))
	reviewGroup.Get("/:bookId", reviewController.GetReviewsForBook(db))
	reviewGroup.Put("/:id", reviewValidator.UpdateReview(), middleware.JWTMiddleware, reviewController.UpdateReview(db))
	reviewGroup.Delete("/:id", middleware.JWTMiddleware, reviewController.DeleteReview(db))
}
