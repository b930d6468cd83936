package repository

import (
	"context"
	"fmt"

	"github.com/clitter/clitter/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

func (r *FollowRepository) WithTx(tx *gorm.DB) *FollowRepository {
	return &FollowRepository{db: tx}
}

// Create inserts the edge. An existing (follower, following) pair is left
// untouched and reported as created=false.
func (r *FollowRepository) Create(ctx context.Context, follow *models.Follow) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "follower_id"}, {Name: "following_id"}},
			DoNothing: true,
		}).
		Create(follow)
	if result.Error != nil {
		return false, fmt.Errorf("failed to create follow: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *FollowRepository) Delete(ctx context.Context, followerID, followingID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete follow: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// GetFollowers lists who follows userID, oldest edge first.
func (r *FollowRepository) GetFollowers(ctx context.Context, userID int64) ([]models.AuthorRef, error) {
	refs := []models.AuthorRef{}
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Select("follower_id AS id, follower_name AS name").
		Where("following_id = ?", userID).
		Order("follows.id ASC").
		Scan(&refs).Error; err != nil {
		return nil, fmt.Errorf("failed to get followers: %w", err)
	}
	return refs, nil
}

// GetFollowing lists who userID follows, oldest edge first.
func (r *FollowRepository) GetFollowing(ctx context.Context, userID int64) ([]models.AuthorRef, error) {
	refs := []models.AuthorRef{}
	if err := r.db.WithContext(ctx).
		Model(&models.Follow{}).
		Select("following_id AS id, following_name AS name").
		Where("follower_id = ?", userID).
		Order("follows.id ASC").
		Scan(&refs).Error; err != nil {
		return nil, fmt.Errorf("failed to get following: %w", err)
	}
	return refs, nil
}
