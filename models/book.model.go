package models

import "time"

type Book struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"not null" json:"title"`
	Author      string    `gorm:"not null" json:"author"`
	Description string    `gorm:"type:text;default:''" json:"description"`
	Genre       string    `gorm:"default:''" json:"genre"`
	Year        int       `gorm:"default:0" json:"year"` // 0 means the year is unset
	CoverImage  string    `gorm:"default:''" json:"coverImage"`
	AddedByID   uint      `gorm:"not null;index" json:"addedById"` // Owner, immutable after creation
	AddedBy     *User     `gorm:"foreignKey:AddedByID" json:"addedBy,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
