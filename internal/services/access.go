package services

import (
	"context"
	"fmt"

	"github.com/clitter/clitter/internal/models"
	"github.com/clitter/clitter/internal/repository"
)

// AccessService resolves api keys to authors.
type AccessService struct {
	authorRepo *repository.AuthorRepository
}

func NewAccessService(authorRepo *repository.AuthorRepository) *AccessService {
	return &AccessService{authorRepo: authorRepo}
}

func (s *AccessService) Resolve(ctx context.Context, token string) (*models.Author, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	author, err := s.authorRepo.GetByAPIKey(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve api key: %w", err)
	}
	if author == nil {
		return nil, ErrInvalidCredential
	}
	return author, nil
}
