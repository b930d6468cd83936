package models

import (
	"time"
)

// Media is a stored upload, unique by the sha256 of its bytes.
type Media struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Link        string    `json:"link" gorm:"size:255;not null"`
	Hash        string    `json:"hash" gorm:"size:64;uniqueIndex;not null"`
	FileName    string    `json:"file_name" gorm:"size:255"`
	ContentType string    `json:"content_type" gorm:"size:100"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Media) TableName() string {
	return "medias"
}
