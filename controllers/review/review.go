package reviewController

import (
	"log"

	"bookshelf/middleware"
	"bookshelf/models"
	reviewValidator "bookshelf/validators/review"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func selectIDName(db *gorm.DB) *gorm.DB {
	return db.Select("id, name")
}

// AddReview creates the caller's review for a book. A user gets at most one
// review per book: the lookup below rejects repeats with a friendly message,
// and the unique index on (book_id, user_id) catches the write-write race
// the lookup cannot see.
func AddReview(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userId := c.Locals("userId").(uint)

		bookId, err := c.ParamsInt("bookId")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid book id!", nil)
		}

		reqData, ok := c.Locals("validatedReview").(*reviewValidator.CreateReviewRequest)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
		}

		var book models.Book
		if err := db.First(&book, "id = ?", bookId).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Book not found!", nil)
		}

		var existing models.Review
		if err := db.Where("book_id = ? AND user_id = ?", book.ID, userId).First(&existing).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "You already reviewed this book. Edit your review instead.", nil)
		}

		review := models.Review{
			BookID:     book.ID,
			UserID:     userId,
			Rating:     reqData.Rating,
			ReviewText: reqData.ReviewText,
		}

		if err := db.Create(&review).Error; err != nil {
			log.Printf("Error saving review to database: %v", err)
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "You already reviewed this book. Edit your review instead.", nil)
		}

		return middleware.JsonResponse(c, fiber.StatusCreated, true, "Review submitted successfully.", review)
	}
}

// GetReviewsForBook returns all reviews for a book with reviewer names.
func GetReviewsForBook(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bookId, err := c.ParamsInt("bookId")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid book id!", nil)
		}

		var reviews []models.Review
		if err := db.Where("book_id = ?", bookId).
			Preload("User", selectIDName).
			Order("created_at DESC, id DESC").
			Find(&reviews).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews!", nil)
		}
		if reviews == nil {
			reviews = []models.Review{}
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched!", reviews)
	}
}

// MyReviews lists the caller's reviews enriched with the book title.
func MyReviews(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userId := c.Locals("userId").(uint)

		var reviews []models.Review
		if err := db.Where("user_id = ?", userId).
			Preload("Book", func(db *gorm.DB) *gorm.DB {
				return db.Select("id, title")
			}).
			Order("created_at DESC, id DESC").
			Find(&reviews).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews!", nil)
		}

		type ReviewResponse struct {
			models.Review
			BookTitle string `json:"bookTitle"`
		}

		response := make([]ReviewResponse, 0, len(reviews))
		for _, r := range reviews {
			title := ""
			if r.Book != nil {
				title = r.Book.Title
			}
			response = append(response, ReviewResponse{
				Review:    r,
				BookTitle: title,
			})
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched!", response)
	}
}

// UpdateReview updates the rating and/or text. Only the author may edit.
func UpdateReview(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userId := c.Locals("userId").(uint)

		reviewId, err := c.ParamsInt("id")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid review id!", nil)
		}

		reqData, ok := c.Locals("validatedReviewUpdate").(*reviewValidator.UpdateReviewRequest)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
		}

		var review models.Review
		if err := db.First(&review, "id = ?", reviewId).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Review not found!", nil)
		}
		if review.UserID != userId {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not allowed!", nil)
		}

		if reqData.Rating != nil {
			review.Rating = *reqData.Rating
		}
		if reqData.ReviewText != nil {
			review.ReviewText = *reqData.ReviewText
		}

		if err := db.Save(&review).Error; err != nil {
			log.Printf("Error updating review: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update review!", nil)
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Review updated successfully.", review)
	}
}

// DeleteReview deletes a review. Only the author may delete.
func DeleteReview(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userId := c.Locals("userId").(uint)

		reviewId, err := c.ParamsInt("id")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid review id!", nil)
		}

		var review models.Review
		if err := db.First(&review, "id = ?", reviewId).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Review not found!", nil)
		}
		if review.UserID != userId {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not allowed!", nil)
		}

		if err := db.Delete(&review).Error; err != nil {
			log.Printf("Error deleting review %d: %v", review.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete review!", nil)
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Review removed.", nil)
	}
}
