package reviewValidator

import (
	"bookshelf/middleware"
	"bookshelf/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateReviewRequest struct {
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
	ReviewText string `json:"reviewText"`
}

type UpdateReviewRequest struct {
	Rating     *int    `json:"rating" validate:"omitnil,min=1,max=5"`
	ReviewText *string `json:"reviewText"`
}

// CreateReview validator middleware
func CreateReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateReviewRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validators.Validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validators.Messages(err))
		}

		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}

// UpdateReview validator middleware
func UpdateReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateReviewRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validators.Validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validators.Messages(err))
		}

		c.Locals("validatedReviewUpdate", reqData)
		return c.Next()
	}
}
