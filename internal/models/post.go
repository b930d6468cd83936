package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type Post struct {
	ID          int64          `json:"id" gorm:"primaryKey;autoIncrement"`
	Content     string         `json:"content" gorm:"type:text;not null"`
	AuthorID    int64          `json:"author_id" gorm:"not null;index"`
	Attachments datatypes.JSON `json:"attachments"`
	SoftDelete  bool           `json:"soft_delete" gorm:"default:false;not null;index"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`

	Author Author `json:"-" gorm:"foreignKey:AuthorID"`
}

// Like is a single entry of a post's like list.
type Like struct {
	ID        int64     `json:"-" gorm:"primaryKey;autoIncrement"`
	PostID    int64     `json:"-" gorm:"not null;uniqueIndex:idx_post_user"`
	UserID    int64     `json:"user_id" gorm:"not null;uniqueIndex:idx_post_user"`
	Name      string    `json:"name" gorm:"size:100;not null"`
	CreatedAt time.Time `json:"-"`
}

// PostView is the API shape of a post with its like list resolved.
type PostView struct {
	ID          int64     `json:"id"`
	Content     string    `json:"content"`
	Attachments []string  `json:"attachments"`
	Author      AuthorRef `json:"author"`
	Likes       []Like    `json:"likes"`
	SoftDelete  bool      `json:"soft_delete"`
}

// NewAttachments encodes media links for the attachments column.
func NewAttachments(links []string) datatypes.JSON {
	if links == nil {
		links = []string{}
	}
	data, _ := json.Marshal(links)
	return datatypes.JSON(data)
}

func (p *Post) AttachmentLinks() []string {
	links := []string{}
	if len(p.Attachments) == 0 {
		return links
	}
	if err := json.Unmarshal(p.Attachments, &links); err != nil {
		return []string{}
	}
	return links
}

func (Post) TableName() string {
	return "posts"
}

func (Like) TableName() string {
	return "likes"
}
