package bookController

import (
	"log"
	"math"
	"os"
	"path/filepath"

	"bookshelf/config"
	"bookshelf/middleware"
	"bookshelf/models"
	"bookshelf/utils"
	bookValidator "bookshelf/validators/book"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateBook creates a book owned by the caller. An optional cover image can
// be attached as the multipart field "coverImage".
func CreateBook(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userId := c.Locals("userId").(uint)

		reqData, ok := c.Locals("validatedBook").(*bookValidator.CreateBookRequest)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
		}

		coverImage := ""
		if file, err := c.FormFile("coverImage"); err == nil {
			filename, err := utils.SaveUploadedFile(file, config.AppConfig.UploadDir)
			if err != nil {
				log.Printf("Error saving cover image: %v", err)
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save cover image!", nil)
			}
			coverImage = utils.GetFileURL(filename)
		}

		book := models.Book{
			Title:       reqData.Title,
			Author:      reqData.Author,
			Description: reqData.Description,
			Genre:       reqData.Genre,
			Year:        reqData.Year,
			CoverImage:  coverImage,
			AddedByID:   userId,
		}

		if err := db.Create(&book).Error; err != nil {
			log.Printf("Error saving book to database: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create book!", nil)
		}

		return middleware.JsonResponse(c, fiber.StatusCreated, true, "Book created successfully.", book)
	}
}

// MyBooks lists the caller's own books, newest first.
func MyBooks(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userId := c.Locals("userId").(uint)

		var books []models.Book
		if err := db.Where("added_by_id = ?", userId).Order("created_at DESC, id DESC").Find(&books).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch books!", nil)
		}
		if books == nil {
			books = []models.Book{}
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Books fetched!", books)
	}
}

// GetBookDetails returns a book, its reviews and the derived average rating.
func GetBookDetails(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bookId, err := c.ParamsInt("id")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid book id!", nil)
		}

		var book models.Book
		if err := db.Preload("AddedBy", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, email")
		}).First(&book, "id = ?", bookId).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Book not found!", nil)
		}

		var reviews []models.Review
		if err := db.Where("book_id = ?", book.ID).
			Preload("User", selectIDName).
			Order("created_at DESC, id DESC").
			Find(&reviews).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews!", nil)
		}
		if reviews == nil {
			reviews = []models.Review{}
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Book fetched!", fiber.Map{
			"book":          book,
			"reviews":       reviews,
			"averageRating": averageRating(reviews),
		})
	}
}

// averageRating is the mean of the review ratings rounded to one decimal
// place, 0 when there are no reviews.
func averageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))
	return math.Round(avg*10) / 10
}

// UpdateBook applies a partial update. Only the owner may edit a book.
func UpdateBook(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userId := c.Locals("userId").(uint)

		bookId, err := c.ParamsInt("id")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid book id!", nil)
		}

		reqData, ok := c.Locals("validatedBookUpdate").(*bookValidator.UpdateBookRequest)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
		}

		var book models.Book
		if err := db.First(&book, "id = ?", bookId).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Book not found!", nil)
		}
		if book.AddedByID != userId {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not allowed!", nil)
		}

		if reqData.Title != nil {
			book.Title = *reqData.Title
		}
		if reqData.Author != nil {
			book.Author = *reqData.Author
		}
		if reqData.Description != nil {
			book.Description = *reqData.Description
		}
		if reqData.Genre != nil {
			book.Genre = *reqData.Genre
		}
		if reqData.Year != nil {
			book.Year = *reqData.Year
		}

		if file, err := c.FormFile("coverImage"); err == nil {
			filename, err := utils.SaveUploadedFile(file, config.AppConfig.UploadDir)
			if err != nil {
				log.Printf("Error saving cover image: %v", err)
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save cover image!", nil)
			}
			removeCoverFile(book.CoverImage)
			book.CoverImage = utils.GetFileURL(filename)
		}

		if err := db.Save(&book).Error; err != nil {
			log.Printf("Error updating book: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update book!", nil)
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Book updated successfully.", book)
	}
}

// DeleteBook removes a book, its reviews and its stored cover image. Only
// the owner may delete a book.
func DeleteBook(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userId := c.Locals("userId").(uint)

		bookId, err := c.ParamsInt("id")
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid book id!", nil)
		}

		var book models.Book
		if err := db.First(&book, "id = ?", bookId).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Book not found!", nil)
		}
		if book.AddedByID != userId {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Not allowed!", nil)
		}

		// Cascade: reviews never outlive their book
		if err := db.Where("book_id = ?", book.ID).Delete(&models.Review{}).Error; err != nil {
			log.Printf("Error deleting reviews for book %d: %v", book.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete book!", nil)
		}
		if err := db.Delete(&book).Error; err != nil {
			log.Printf("Error deleting book %d: %v", book.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete book!", nil)
		}

		removeCoverFile(book.CoverImage)

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Book removed.", nil)
	}
}

// removeCoverFile deletes the stored file behind a cover image path.
// Best effort: a leftover file is not worth failing the request over.
func removeCoverFile(coverImage string) {
	if coverImage == "" {
		return
	}
	path := filepath.Join(config.AppConfig.UploadDir, filepath.Base(coverImage))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("Error removing cover file %s: %v", path, err)
	}
}
