package models

import "time"

// Review rates a book 1-5 with optional text. The composite unique index on
// (book_id, user_id) backstops the application-level duplicate pre-check, so
// two concurrent submissions from the same user cannot both insert.
type Review struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	BookID     uint      `gorm:"not null;index;uniqueIndex:idx_reviews_book_user" json:"bookId"`
	UserID     uint      `gorm:"not null;index;uniqueIndex:idx_reviews_book_user" json:"userId"` // Who gave the review
	Rating     int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`       // 1–5 rating
	ReviewText string    `gorm:"type:text;default:''" json:"reviewText"`
	User       *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Book       *Book     `gorm:"foreignKey:BookID" json:"-"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
