package model

import "time"

// 属性（Size、Colorなど）
type Attribute struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// 属性の値（Small、Mediumなど）
type AttributeValue struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	AttributeID int64  `gorm:"not null;index" json:"attribute_id"`
	Value       string `gorm:"type:varchar(255);not null" json:"value"`
}
