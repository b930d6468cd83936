package services

import (
	"context"

	"github.com/clitter/clitter/internal/models"
	"github.com/clitter/clitter/internal/repository"
	"github.com/clitter/clitter/pkg/logger"
	"github.com/clitter/clitter/pkg/queue"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type LikeService struct {
	db         *gorm.DB
	postRepo   *repository.PostRepository
	likeRepo   *repository.LikeRepository
	authorRepo *repository.AuthorRepository
	events     *Emitter
	logger     *logger.Logger
}

func NewLikeService(db *gorm.DB, postRepo *repository.PostRepository, likeRepo *repository.LikeRepository, authorRepo *repository.AuthorRepository, events *Emitter, logger *logger.Logger) *LikeService {
	return &LikeService{
		db:         db,
		postRepo:   postRepo,
		likeRepo:   likeRepo,
		authorRepo: authorRepo,
		events:     events,
		logger:     logger,
	}
}

// AddLike appends the author to the post's like list. Liking twice fails
// with ErrDuplicateLike and leaves the list as it was.
func (s *LikeService) AddLike(ctx context.Context, postID, authorID int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := s.postRepo.WithTx(tx).GetActiveForUpdate(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrPostNotFound
		}

		author, err := s.authorRepo.WithTx(tx).GetByID(ctx, authorID)
		if err != nil {
			return err
		}
		if author == nil {
			return ErrAuthorNotFound
		}

		created, err := s.likeRepo.WithTx(tx).Create(ctx, &models.Like{
			PostID: postID,
			UserID: author.ID,
			Name:   author.Name,
		})
		if err != nil {
			return err
		}
		if !created {
			return ErrDuplicateLike
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.events.Emit(ctx, postID, queue.EventLikeCreated, queue.LikeEventData{PostID: postID, UserID: authorID})
	s.logger.WithFields(logrus.Fields{"post_id": postID, "user_id": authorID}).Info("Post liked")
	return nil
}

func (s *LikeService) RemoveLike(ctx context.Context, postID, authorID int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		post, err := s.postRepo.WithTx(tx).GetActiveForUpdate(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrPostNotFound
		}

		removed, err := s.likeRepo.WithTx(tx).Delete(ctx, postID, authorID)
		if err != nil {
			return err
		}
		if !removed {
			return ErrLikeNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.events.Emit(ctx, postID, queue.EventLikeDeleted, queue.LikeEventData{PostID: postID, UserID: authorID})
	s.logger.WithFields(logrus.Fields{"post_id": postID, "user_id": authorID}).Info("Post unliked")
	return nil
}

// ListLikes returns the like list of an active post in the order the likes
// were given.
func (s *LikeService) ListLikes(ctx context.Context, postID int64) ([]models.Like, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil || post.SoftDelete {
		return nil, ErrPostNotFound
	}
	return s.likeRepo.GetByPostID(ctx, postID)
}
