package model

import "time"

// サイト全体設定（1行だけ想定）
type SiteConfiguration struct {
	ID              int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	SiteName        string `gorm:"type:varchar(255);not null;default:'Forestland Linen'" json:"site_name"`
	SiteTagline     string `gorm:"type:varchar(255)" json:"site_tagline"`
	LogoURL         string `gorm:"type:varchar(500)" json:"logo_url"`
	TopBarMessage   string `gorm:"type:varchar(255)" json:"top_bar_message"`
	DefaultCurrency string `gorm:"type:varchar(10);not null;default:'BDT'" json:"default_currency"`

	WhatsappNumber string `gorm:"type:varchar(20)" json:"whatsapp_number"`
	WhatsappText   string `gorm:"type:varchar(255)" json:"whatsapp_text"`

	InstagramHandle string `gorm:"type:varchar(100)" json:"instagram_handle"`
	CopyrightText   string `gorm:"type:varchar(255)" json:"copyright_text"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

type SocialLink struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Platform string `gorm:"type:varchar(50);not null" json:"platform"`
	URL      string `gorm:"type:varchar(500);not null" json:"url"`
}
