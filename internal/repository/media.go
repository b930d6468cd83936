package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/clitter/clitter/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MediaRepository struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

func (r *MediaRepository) GetByHash(ctx context.Context, hash string) (*models.Media, error) {
	var media models.Media
	if err := r.db.WithContext(ctx).First(&media, "hash = ?", hash).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get media: %w", err)
	}
	return &media, nil
}

// GetOrCreate stores media unless a record with the same hash exists and
// returns whichever row ends up owning the hash.
func (r *MediaRepository) GetOrCreate(ctx context.Context, media *models.Media) (*models.Media, bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "hash"}}, DoNothing: true}).
		Create(media)
	if result.Error != nil {
		return nil, false, fmt.Errorf("failed to create media: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		return media, true, nil
	}

	existing, err := r.GetByHash(ctx, media.Hash)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("failed to create media: hash %s vanished", media.Hash)
	}
	return existing, false, nil
}

// GetByIDs returns the records found for ids, in the order of ids.
// Unknown ids are left out.
func (r *MediaRepository) GetByIDs(ctx context.Context, ids []int64) ([]models.Media, error) {
	if len(ids) == 0 {
		return []models.Media{}, nil
	}
	var found []models.Media
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, fmt.Errorf("failed to get media: %w", err)
	}
	byID := make(map[int64]models.Media, len(found))
	for _, m := range found {
		byID[m.ID] = m
	}
	ordered := make([]models.Media, 0, len(ids))
	for _, id := range ids {
		if m, ok := byID[id]; ok {
			ordered = append(ordered, m)
		}
	}
	return ordered, nil
}
