package model

import "time"

type Book struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title         string    `gorm:"type:varchar(200);not null" json:"title"`
	Slug          string    `gorm:"type:varchar(220);uniqueIndex" json:"slug"`
	Author        string    `gorm:"type:varchar(100);not null" json:"author"`
	Description   string    `gorm:"type:text;not null" json:"description"`
	Price         float64   `gorm:"not null" json:"price"`
	Category      string    `gorm:"type:varchar(100);not null;index" json:"category"`
	CoverImage    string    `gorm:"type:varchar(500)" json:"cover_image"`
	PDFURL        string    `gorm:"type:varchar(500)" json:"pdf_url"`
	PublishedYear int       `json:"published_year"`
	Featured      bool      `gorm:"not null;default:false" json:"featured"`
	Active        bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
