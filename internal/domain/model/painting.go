package model

import "time"

type Painting struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"type:varchar(200);not null" json:"title"`
	Slug        string    `gorm:"type:varchar(220);uniqueIndex" json:"slug"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Price       float64   `json:"price"`
	ImageURL    string    `gorm:"type:varchar(500);not null" json:"image_url"`
	Category    string    `gorm:"type:varchar(100);not null;index" json:"category"`
	Medium      string    `gorm:"type:varchar(100);not null" json:"medium"`
	WidthCM     float64   `json:"width_cm"`
	HeightCM    float64   `json:"height_cm"`
	Year        int       `json:"year"`
	Sold        bool      `gorm:"not null;default:false" json:"sold"`
	Active      bool      `gorm:"not null;default:true;index" json:"active"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
