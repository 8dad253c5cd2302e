package model

import "time"

type Testimonial struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Author     string    `gorm:"type:varchar(255);not null" json:"author"`
	Body       string    `gorm:"type:text;not null" json:"body"`
	Rating     int       `gorm:"not null;default:5" json:"rating"`
	IsVisible  bool      `gorm:"not null;default:true" json:"is_visible"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

type BlogPost struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Slug        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Excerpt     string    `gorm:"type:varchar(500)" json:"excerpt"`
	Body        string    `gorm:"type:text;not null" json:"body"`
	CoverURL    string    `gorm:"type:varchar(500)" json:"cover_url"`
	IsPublished bool      `gorm:"not null;default:true" json:"is_published"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 固定ページ（About、FAQなど）
type InfoPage struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"type:varchar(255);not null" json:"title"`
	Slug      string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

type ContactMessage struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email"`
	Subject   string    `gorm:"type:varchar(255)" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
