package bookController

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"bookshelf/config"
	"bookshelf/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

type detailsPayload struct {
	Book          models.Book     `json:"book"`
	Reviews       []models.Review `json:"reviews"`
	AverageRating float64         `json:"averageRating"`
}

func uitoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func getDetails(t *testing.T, app *fiber.App, bookID uint) detailsPayload {
	t.Helper()
	resp := doJSON(t, app, http.MethodGet, "/api/books/"+uitoa(bookID), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	var payload detailsPayload
	require.NoError(t, json.Unmarshal(env.Data, &payload))
	return payload
}

func TestCreateBookRequiresAuth(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)

	resp := doJSON(t, app, http.MethodPost, "/api/books", "", fiber.Map{
		"title":  "Dune",
		"author": "Frank Herbert",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateBookValidation(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)
	_, token := seedUser(t, db, "Ada", "ada@example.com")

	resp := doJSON(t, app, http.MethodPost, "/api/books", token, fiber.Map{
		"author": "Frank Herbert",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateBook(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)
	user, token := seedUser(t, db, "Ada", "ada@example.com")

	resp := doJSON(t, app, http.MethodPost, "/api/books", token, fiber.Map{
		"title":       "Dune",
		"author":      "Frank Herbert",
		"description": "Desert planet",
		"genre":       "Sci-Fi",
		"year":        1965,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	var book models.Book
	require.NoError(t, json.Unmarshal(env.Data, &book))
	require.Equal(t, "Dune", book.Title)
	require.Equal(t, user.ID, book.AddedByID)
	require.NotZero(t, book.ID)
}

func TestCreateBookWithCoverImage(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)
	_, token := seedUser(t, db, "Ada", "ada@example.com")

	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	require.NoError(t, w.WriteField("title", "Dune"))
	require.NoError(t, w.WriteField("author", "Frank Herbert"))
	fw, err := w.CreateFormFile("coverImage", "cover.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("not-really-a-png"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/books", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	var book models.Book
	require.NoError(t, json.Unmarshal(env.Data, &book))
	require.True(t, len(book.CoverImage) > len("/uploads/"))
	require.Contains(t, book.CoverImage, "/uploads/")

	// The file landed in the upload directory
	stored := filepath.Join(config.AppConfig.UploadDir, filepath.Base(book.CoverImage))
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	require.Equal(t, "not-really-a-png", string(data))
}

func TestGetBookDetailsAverageRating(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)
	owner, _ := seedUser(t, db, "Ada", "ada@example.com")
	r1, _ := seedUser(t, db, "R1", "r1@example.com")
	r2, _ := seedUser(t, db, "R2", "r2@example.com")
	r3, _ := seedUser(t, db, "R3", "r3@example.com")

	book := seedBook(t, db, owner, "Dune", "Frank Herbert", "", 1965, time.Now())
	seedReview(t, db, book, r1, 5)
	seedReview(t, db, book, r2, 3)
	seedReview(t, db, book, r3, 4)

	payload := getDetails(t, app, book.ID)
	require.Equal(t, 4.0, payload.AverageRating)
	require.Len(t, payload.Reviews, 3)
	require.Equal(t, "Dune", payload.Book.Title)
	require.NotNil(t, payload.Book.AddedBy)
	require.Equal(t, "Ada", payload.Book.AddedBy.Name)
}

func TestGetBookDetailsNoReviews(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)
	owner, _ := seedUser(t, db, "Ada", "ada@example.com")
	book := seedBook(t, db, owner, "Dune", "Frank Herbert", "", 1965, time.Now())

	payload := getDetails(t, app, book.ID)
	require.Equal(t, 0.0, payload.AverageRating)
	require.Empty(t, payload.Reviews)
}

func TestGetBookDetailsNotFound(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)

	resp := doJSON(t, app, http.MethodGet, "/api/books/9999", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAverageRatingRoundsToOneDecimal(t *testing.T) {
	reviews := []models.Review{{Rating: 5}, {Rating: 4}}
	require.Equal(t, 4.5, averageRating(reviews))

	reviews = []models.Review{{Rating: 5}, {Rating: 5}, {Rating: 4}}
	require.Equal(t, 4.7, averageRating(reviews))

	require.Equal(t, 0.0, averageRating(nil))
}

func TestUpdateBookOwnerOnly(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)
	owner, ownerToken := seedUser(t, db, "Ada", "ada@example.com")
	_, otherToken := seedUser(t, db, "Bob", "bob@example.com")

	book := seedBook(t, db, owner, "Dune", "Frank Herbert", "", 1965, time.Now())
	path := "/api/books/" + uitoa(book.ID)

	resp := doJSON(t, app, http.MethodPut, path, otherToken, fiber.Map{"title": "Hijacked"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPut, path, ownerToken, fiber.Map{"title": "Dune Messiah", "year": 1969})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	var updated models.Book
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	require.Equal(t, "Dune Messiah", updated.Title)
	require.Equal(t, 1969, updated.Year)
	require.Equal(t, "Frank Herbert", updated.Author) // untouched field survives
	require.Equal(t, owner.ID, updated.AddedByID)     // ownership is immutable
}

func TestUpdateBookNotFound(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)
	_, token := seedUser(t, db, "Ada", "ada@example.com")

	resp := doJSON(t, app, http.MethodPut, "/api/books/9999", token, fiber.Map{"title": "Ghost"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteBookOwnerOnlyAndCascades(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)
	owner, ownerToken := seedUser(t, db, "Ada", "ada@example.com")
	reviewer, otherToken := seedUser(t, db, "Bob", "bob@example.com")

	book := seedBook(t, db, owner, "Dune", "Frank Herbert", "", 1965, time.Now())
	seedReview(t, db, book, reviewer, 5)
	path := "/api/books/" + uitoa(book.ID)

	resp := doJSON(t, app, http.MethodDelete, path, otherToken, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, path, ownerToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Cascade: no reviews reference the book anymore
	var count int64
	require.NoError(t, db.Model(&models.Review{}).Where("book_id = ?", book.ID).Count(&count).Error)
	require.Zero(t, count)
}

func TestMyBooksReturnsOnlyCallersBooks(t *testing.T) {
	db := newTestDB(t)
	app := newTestApp(t, db)
	ada, adaToken := seedUser(t, db, "Ada", "ada@example.com")
	bob, _ := seedUser(t, db, "Bob", "bob@example.com")

	now := time.Now()
	seedBook(t, db, ada, "Ada's Book", "Ada", "", 0, now)
	seedBook(t, db, bob, "Bob's Book", "Bob", "", 0, now)

	resp := doJSON(t, app, http.MethodGet, "/api/books/my-books", adaToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp)
	var books []models.Book
	require.NoError(t, json.Unmarshal(env.Data, &books))
	require.Len(t, books, 1)
	require.Equal(t, "Ada's Book", books[0].Title)

	resp = doJSON(t, app, http.MethodGet, "/api/books/my-books", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
