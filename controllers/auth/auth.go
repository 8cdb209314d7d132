package authController

import (
	"log"

	"bookshelf/config"
	"bookshelf/middleware"
	"bookshelf/models"
	authValidator "bookshelf/validators/auth"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Signup registers a new user and returns a signed token alongside it.
func Signup(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData, ok := c.Locals("validatedSignup").(*authValidator.SignupRequest)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
		}

		// Check if email already exists
		if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
		}

		// Hash Password
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
		if err != nil {
			log.Printf("Error hashing password: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
		}

		newUser := models.User{
			Name:     reqData.Name,
			Email:    reqData.Email,
			Password: string(hashedPassword),
		}

		if err := db.Create(&newUser).Error; err != nil {
			log.Printf("Error saving user to database: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to signup user!", nil)
		}

		token, err := middleware.GenerateJWT(newUser.ID, newUser.Name, newUser.Email)
		if err != nil {
			log.Printf("Error generating token: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
		}

		return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", fiber.Map{
			"token": token,
			"user":  newUser,
		})
	}
}

// Login verifies credentials and returns a fresh token.
func Login(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData, ok := c.Locals("validatedLogin").(*authValidator.LoginRequest)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
		}

		var user models.User
		if err := db.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
			// Unknown email and wrong password are indistinguishable on purpose
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid credentials!", nil)
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid credentials!", nil)
		}

		token, err := middleware.GenerateJWT(user.ID, user.Name, user.Email)
		if err != nil {
			log.Printf("Error generating token: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
			"token": token,
			"user":  user,
		})
	}
}
