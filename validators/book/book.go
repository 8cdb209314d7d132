package bookValidator

import (
	"bookshelf/middleware"
	"bookshelf/validators"

	"github.com/gofiber/fiber/v2"
)

// CreateBookRequest carries both json and form tags because books can be
// created from a JSON body or a multipart form with a cover image.
type CreateBookRequest struct {
	Title       string `json:"title" form:"title" validate:"required"`
	Author      string `json:"author" form:"author" validate:"required"`
	Description string `json:"description" form:"description"`
	Genre       string `json:"genre" form:"genre"`
	Year        int    `json:"year" form:"year" validate:"omitempty,gte=0"`
}

type UpdateBookRequest struct {
	Title       *string `json:"title" form:"title" validate:"omitnil,min=1"`
	Author      *string `json:"author" form:"author" validate:"omitnil,min=1"`
	Description *string `json:"description" form:"description"`
	Genre       *string `json:"genre" form:"genre"`
	Year        *int    `json:"year" form:"year" validate:"omitnil,gte=0"`
}

// CreateBook validator middleware
func CreateBook() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateBookRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validators.Validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validators.Messages(err))
		}

		c.Locals("validatedBook", reqData)
		return c.Next()
	}
}

// UpdateBook validator middleware
func UpdateBook() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateBookRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validators.Validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validators.Messages(err))
		}

		c.Locals("validatedBookUpdate", reqData)
		return c.Next()
	}
}
