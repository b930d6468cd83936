package models

import (
	"time"
)

type Author struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Name       string    `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Password   string    `json:"-" gorm:"size:100;not null"`
	APIKey     string    `json:"-" gorm:"column:api_key;size:100;uniqueIndex;not null"`
	SoftDelete bool      `json:"-" gorm:"default:false;not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Follow is one edge of the follow graph. The names are snapshots taken when
// the edge was created and are not refreshed afterwards.
type Follow struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	FollowerID    int64     `json:"follower_id" gorm:"not null;uniqueIndex:idx_follower_following"`
	FollowerName  string    `json:"follower_name" gorm:"size:100;not null"`
	FollowingID   int64     `json:"following_id" gorm:"not null;uniqueIndex:idx_follower_following;index"`
	FollowingName string    `json:"following_name" gorm:"size:100;not null"`
	CreatedAt     time.Time `json:"created_at"`
}

// AuthorRef is the {id, name} pair used in follower and following lists.
type AuthorRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Profile struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Followers []AuthorRef `json:"followers"`
	Following []AuthorRef `json:"following"`
}

func (Author) TableName() string {
	return "authors"
}

func (Follow) TableName() string {
	return "follows"
}
