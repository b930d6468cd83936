package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/clitter/clitter/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AuthorRepository struct {
	db *gorm.DB
}

func NewAuthorRepository(db *gorm.DB) *AuthorRepository {
	return &AuthorRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *AuthorRepository) WithTx(tx *gorm.DB) *AuthorRepository {
	return &AuthorRepository{db: tx}
}

// Create inserts author unless the name is taken. It reports whether a row
// was written.
func (r *AuthorRepository) Create(ctx context.Context, author *models.Author) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(author)
	if result.Error != nil {
		return false, fmt.Errorf("failed to create author: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *AuthorRepository) GetByID(ctx context.Context, id int64) (*models.Author, error) {
	return r.first(ctx, r.db.WithContext(ctx), "id = ?", id)
}

// GetByIDForUpdate locks the author row until the surrounding transaction ends.
func (r *AuthorRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Author, error) {
	return r.first(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), "id = ?", id)
}

func (r *AuthorRepository) GetByName(ctx context.Context, name string) (*models.Author, error) {
	return r.first(ctx, r.db.WithContext(ctx), "name = ?", name)
}

func (r *AuthorRepository) GetByAPIKey(ctx context.Context, apiKey string) (*models.Author, error) {
	return r.first(ctx, r.db.WithContext(ctx), "api_key = ?", apiKey)
}

func (r *AuthorRepository) first(ctx context.Context, db *gorm.DB, query string, arg interface{}) (*models.Author, error) {
	var author models.Author
	if err := db.Where("soft_delete = ?", false).First(&author, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get author: %w", err)
	}
	return &author, nil
}
