package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/clitter/clitter/internal/models"
	"github.com/clitter/clitter/internal/repository"
	"github.com/clitter/clitter/pkg/logger"
	"github.com/clitter/clitter/pkg/queue"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	apiKeyLength   = 64
	apiKeyAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

type AuthorService struct {
	db         *gorm.DB
	authorRepo *repository.AuthorRepository
	followRepo *repository.FollowRepository
	cache      ProfileCache
	events     *Emitter
	logger     *logger.Logger

	reinvalidateDelay time.Duration
}

func NewAuthorService(db *gorm.DB, authorRepo *repository.AuthorRepository, followRepo *repository.FollowRepository, cache ProfileCache, events *Emitter, logger *logger.Logger) *AuthorService {
	return &AuthorService{
		db:         db,
		authorRepo: authorRepo,
		followRepo: followRepo,
		cache:      cache,
		events:     events,
		logger:     logger,
	}
}

// WithReinvalidateDelay makes follow changes evict the affected profiles a
// second time after d. A Profile read that loaded the old edges before the
// commit may write them back to the cache after the first eviction.
func (s *AuthorService) WithReinvalidateDelay(d time.Duration) *AuthorService {
	s.reinvalidateDelay = d
	return s
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Password string `json:"password" binding:"required,max=72"`
}

// Register logs the author in when the name exists and creates the author
// otherwise. created tells the two apart.
func (s *AuthorService) Register(ctx context.Context, name, password string) (apiKey string, created bool, err error) {
	name = strings.TrimSpace(name)
	if name == "" || password == "" {
		return "", false, NewValidationError("name and password are required")
	}

	existing, err := s.authorRepo.GetByName(ctx, name)
	if err != nil {
		return "", false, fmt.Errorf("failed to check name: %w", err)
	}
	if existing != nil {
		return s.login(existing, password)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", false, fmt.Errorf("failed to hash password: %w", err)
	}
	key, err := generateAPIKey()
	if err != nil {
		return "", false, fmt.Errorf("failed to generate api key: %w", err)
	}

	author := &models.Author{Name: name, Password: string(hashedPassword), APIKey: key}
	inserted, err := s.authorRepo.Create(ctx, author)
	if err != nil {
		return "", false, err
	}
	if !inserted {
		// lost a race against a concurrent registration of the same name
		existing, err := s.authorRepo.GetByName(ctx, name)
		if err != nil {
			return "", false, fmt.Errorf("failed to check name: %w", err)
		}
		if existing == nil {
			return "", false, NewValidationError("name is not available")
		}
		return s.login(existing, password)
	}

	s.events.Emit(ctx, author.ID, queue.EventAuthorRegistered, queue.AuthorEventData{AuthorID: author.ID, Name: author.Name})
	s.logger.WithField("author_id", author.ID).Info("Author registered successfully")
	return author.APIKey, true, nil
}

func (s *AuthorService) login(author *models.Author, password string) (string, bool, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(author.Password), []byte(password)); err != nil {
		return "", false, ErrIncorrectPassword
	}
	return author.APIKey, false, nil
}

// Profile serves the author's profile, from the cache when possible.
func (s *AuthorService) Profile(ctx context.Context, authorID int64) (*models.Profile, error) {
	if s.cache != nil {
		profile, ok, err := s.cache.Get(ctx, authorID)
		if err != nil {
			s.logger.WithError(err).WithField("author_id", authorID).Warn("Failed to read profile cache")
		} else if ok {
			return profile, nil
		}
	}

	author, err := s.authorRepo.GetByID(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to get author: %w", err)
	}
	if author == nil {
		return nil, ErrAuthorNotFound
	}

	followers, err := s.followRepo.GetFollowers(ctx, authorID)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.GetFollowing(ctx, authorID)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		ID:        author.ID,
		Name:      author.Name,
		Followers: followers,
		Following: following,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, profile); err != nil {
			s.logger.WithError(err).WithField("author_id", authorID).Warn("Failed to cache profile")
		}
	}
	return profile, nil
}

// Follow makes reader follow writer. Following an author twice is a no-op.
func (s *AuthorService) Follow(ctx context.Context, readerID, writerID int64) error {
	var created bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reader, writer, err := s.lockPair(ctx, tx, readerID, writerID)
		if err != nil {
			return err
		}

		created, err = s.followRepo.WithTx(tx).Create(ctx, &models.Follow{
			FollowerID:    reader.ID,
			FollowerName:  reader.Name,
			FollowingID:   writer.ID,
			FollowingName: writer.Name,
		})
		return err
	})
	if err != nil {
		return err
	}

	if created {
		s.invalidate(ctx, readerID, writerID)
		s.events.Emit(ctx, readerID, queue.EventFollowCreated, queue.FollowEventData{FollowerID: readerID, FollowingID: writerID})
		s.logger.WithFields(logrus.Fields{
			"follower_id":  readerID,
			"following_id": writerID,
		}).Info("Author followed")
	}
	return nil
}

// Unfollow removes the follow edge. Unfollowing an author that is not
// followed is a no-op.
func (s *AuthorService) Unfollow(ctx context.Context, readerID, writerID int64) error {
	var removed bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, _, err := s.lockPair(ctx, tx, readerID, writerID); err != nil {
			return err
		}

		var err error
		removed, err = s.followRepo.WithTx(tx).Delete(ctx, readerID, writerID)
		return err
	})
	if err != nil {
		return err
	}

	if removed {
		s.invalidate(ctx, readerID, writerID)
		s.events.Emit(ctx, readerID, queue.EventFollowDeleted, queue.FollowEventData{FollowerID: readerID, FollowingID: writerID})
		s.logger.WithFields(logrus.Fields{
			"follower_id":  readerID,
			"following_id": writerID,
		}).Info("Author unfollowed")
	}
	return nil
}

// lockPair loads and locks both authors, lower id first, then rejects
// self-follows.
func (s *AuthorService) lockPair(ctx context.Context, tx *gorm.DB, readerID, writerID int64) (*models.Author, *models.Author, error) {
	authors := s.authorRepo.WithTx(tx)

	first, second := readerID, writerID
	if second < first {
		first, second = second, first
	}

	locked := make(map[int64]*models.Author, 2)
	for _, id := range []int64{first, second} {
		if _, ok := locked[id]; ok {
			continue
		}
		author, err := authors.GetByIDForUpdate(ctx, id)
		if err != nil {
			return nil, nil, err
		}
		if author == nil {
			return nil, nil, ErrAuthorNotFound
		}
		locked[id] = author
	}

	if readerID == writerID {
		return nil, nil, ErrSelfFollow
	}
	return locked[readerID], locked[writerID], nil
}

func (s *AuthorService) invalidate(ctx context.Context, authorIDs ...int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, authorIDs...); err != nil {
		s.logger.WithError(err).WithField("author_ids", authorIDs).Warn("Failed to invalidate profile cache")
	}
	if s.reinvalidateDelay <= 0 {
		return
	}
	time.AfterFunc(s.reinvalidateDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.cache.Invalidate(ctx, authorIDs...); err != nil {
			s.logger.WithError(err).WithField("author_ids", authorIDs).Warn("Failed to re-invalidate profile cache")
		}
	})
}

func generateAPIKey() (string, error) {
	var b strings.Builder
	b.Grow(apiKeyLength)
	max := big.NewInt(int64(len(apiKeyAlphabet)))
	for i := 0; i < apiKeyLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(apiKeyAlphabet[n.Int64()])
	}
	return b.String(), nil
}

