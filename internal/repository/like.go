package repository

import (
	"context"
	"fmt"

	"github.com/clitter/clitter/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

func (r *LikeRepository) WithTx(tx *gorm.DB) *LikeRepository {
	return &LikeRepository{db: tx}
}

// Create appends like to its post's list. created is false when the user
// already likes the post; the stored row is then left as it was.
func (r *LikeRepository) Create(ctx context.Context, like *models.Like) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(like)
	if result.Error != nil {
		return false, fmt.Errorf("failed to create like: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *LikeRepository) Delete(ctx context.Context, postID, userID int64) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&models.Like{})
	if result.Error != nil {
		return false, fmt.Errorf("failed to delete like: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// GetByPostID returns the like list in insertion order.
func (r *LikeRepository) GetByPostID(ctx context.Context, postID int64) ([]models.Like, error) {
	likes := []models.Like{}
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("id ASC").
		Find(&likes).Error; err != nil {
		return nil, fmt.Errorf("failed to get likes by post: %w", err)
	}
	return likes, nil
}

// GetByPostIDs groups the like lists of several posts by post id.
func (r *LikeRepository) GetByPostIDs(ctx context.Context, postIDs []int64) (map[int64][]models.Like, error) {
	grouped := make(map[int64][]models.Like, len(postIDs))
	if len(postIDs) == 0 {
		return grouped, nil
	}
	var likes []models.Like
	if err := r.db.WithContext(ctx).
		Where("post_id IN ?", postIDs).
		Order("id ASC").
		Find(&likes).Error; err != nil {
		return nil, fmt.Errorf("failed to get likes by posts: %w", err)
	}
	for _, like := range likes {
		grouped[like.PostID] = append(grouped[like.PostID], like)
	}
	return grouped, nil
}
