package bookController

import (
	"sort"
	"strings"

	"bookshelf/middleware"
	"bookshelf/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// pageSize is the fixed page size of the public book listing.
const pageSize = 5

const (
	sortNewest = "newest"
	sortYear   = "year"
	sortRating = "rating"
)

// escapeLike makes a search term safe to embed in a LIKE pattern so that
// "100%" or "foo_bar" match literally instead of as wildcards.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func selectIDName(db *gorm.DB) *gorm.DB {
	return db.Select("id, name")
}

// ListBooks answers "page N of books matching q/genre, ordered by sortBy".
//
// The total is always counted over the same filter used for the page slice,
// so total/pages stay stable when the caller switches sort modes. An unknown
// sortBy value falls back to newest rather than being rejected.
func ListBooks(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		if page < 1 {
			page = 1
		}
		q := strings.TrimSpace(c.Query("q"))
		genre := c.Query("genre")
		sortBy := c.Query("sortBy", sortNewest)

		query := db.Model(&models.Book{})
		if q != "" {
			pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
			query = query.Where(`LOWER(title) LIKE ? ESCAPE '\' OR LOWER(author) LIKE ? ESCAPE '\'`, pattern, pattern)
		}
		if genre != "" {
			query = query.Where("genre = ?", genre)
		}

		var total int64
		if err := query.Count(&total).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch books!", nil)
		}
		pages := int((total + pageSize - 1) / pageSize)
		offset := (page - 1) * pageSize

		var books []models.Book
		switch sortBy {
		case sortRating:
			ordered, err := booksByRating(db, query)
			if err != nil {
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch books!", nil)
			}
			lo := offset
			if lo > len(ordered) {
				lo = len(ordered)
			}
			hi := lo + pageSize
			if hi > len(ordered) {
				hi = len(ordered)
			}
			books = ordered[lo:hi]
		case sortYear:
			// Unset years are stored as 0, so they sort last; id breaks ties
			// to keep pagination stable.
			err := query.
				Preload("AddedBy", selectIDName).
				Order("year DESC, id DESC").
				Offset(offset).Limit(pageSize).
				Find(&books).Error
			if err != nil {
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch books!", nil)
			}
		default:
			err := query.
				Preload("AddedBy", selectIDName).
				Order("created_at DESC, id DESC").
				Offset(offset).Limit(pageSize).
				Find(&books).Error
			if err != nil {
				return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch books!", nil)
			}
		}

		if books == nil {
			books = []models.Book{}
		}

		return middleware.JsonResponse(c, fiber.StatusOK, true, "Books fetched!", fiber.Map{
			"books": books,
			"total": total,
			"page":  page,
			"pages": pages,
		})
	}
}

// booksByRating orders the filtered books by their average review rating.
// The average lives on no book row, so this is a two-step read: fetch the
// matching books, fetch their reviews in one IN query, then reduce and sort
// in memory. Books without reviews average to 0 and land at the end; equal
// averages fall back to ascending id so pages do not shuffle between
// requests.
func booksByRating(db *gorm.DB, query *gorm.DB) ([]models.Book, error) {
	var matched []models.Book
	if err := query.Preload("AddedBy", selectIDName).Find(&matched).Error; err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return matched, nil
	}

	ids := make([]uint, 0, len(matched))
	for _, b := range matched {
		ids = append(ids, b.ID)
	}

	var reviews []models.Review
	if err := db.Where("book_id IN ?", ids).Find(&reviews).Error; err != nil {
		return nil, err
	}

	sums := make(map[uint]int, len(matched))
	counts := make(map[uint]int, len(matched))
	for _, r := range reviews {
		sums[r.BookID] += r.Rating
		counts[r.BookID]++
	}
	avg := func(id uint) float64 {
		if counts[id] == 0 {
			return 0
		}
		return float64(sums[id]) / float64(counts[id])
	}

	sort.Slice(matched, func(i, j int) bool {
		ai, aj := avg(matched[i].ID), avg(matched[j].ID)
		if ai != aj {
			return ai > aj
		}
		return matched[i].ID < matched[j].ID
	})

	return matched, nil
}
