package services

import (
	"context"
	"strings"

	"github.com/clitter/clitter/internal/models"
	"github.com/clitter/clitter/internal/repository"
	"github.com/clitter/clitter/pkg/logger"
	"github.com/clitter/clitter/pkg/queue"
	"gorm.io/gorm"
)

// MediaResolver turns media ids into attachment links.
type MediaResolver interface {
	Links(ctx context.Context, ids []int64) ([]string, error)
}

type PostService struct {
	db       *gorm.DB
	postRepo *repository.PostRepository
	likeRepo *repository.LikeRepository
	media    MediaResolver
	events   *Emitter
	logger   *logger.Logger
}

func NewPostService(db *gorm.DB, postRepo *repository.PostRepository, likeRepo *repository.LikeRepository, media MediaResolver, events *Emitter, logger *logger.Logger) *PostService {
	return &PostService{
		db:       db,
		postRepo: postRepo,
		likeRepo: likeRepo,
		media:    media,
		events:   events,
		logger:   logger,
	}
}

type CreatePostRequest struct {
	Content  string  `json:"tweet_data" binding:"required,max=1000"`
	MediaIDs []int64 `json:"tweet_media_ids"`
}

func (s *PostService) Create(ctx context.Context, authorID int64, content string, mediaIDs []int64) (*models.Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, NewValidationError("tweet content is empty")
	}

	links := []string{}
	if len(mediaIDs) > 0 {
		var err error
		links, err = s.media.Links(ctx, mediaIDs)
		if err != nil {
			return nil, err
		}
	}

	post := &models.Post{
		Content:     content,
		AuthorID:    authorID,
		Attachments: models.NewAttachments(links),
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.events.Emit(ctx, authorID, queue.EventPostCreated, queue.PostEventData{PostID: post.ID, AuthorID: authorID, Content: content})
	s.logger.WithField("post_id", post.ID).Info("Post created successfully")
	return post, nil
}

// Get returns the post even after it has been deleted; the view carries the
// soft_delete flag.
func (s *PostService) Get(ctx context.Context, postID int64) (*models.PostView, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	likes, err := s.likeRepo.GetByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	view := newPostView(post, likes)
	return &view, nil
}

func (s *PostService) ListByAuthor(ctx context.Context, authorID int64) ([]models.PostView, error) {
	posts, err := s.postRepo.GetByAuthorID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	likes, err := s.likeRepo.GetByPostIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.PostView, len(posts))
	for i := range posts {
		views[i] = newPostView(&posts[i], likes[posts[i].ID])
	}
	return views, nil
}

// Delete soft deletes the post. Only its author may do so, and only once.
func (s *PostService) Delete(ctx context.Context, postID, requesterID int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		posts := s.postRepo.WithTx(tx)

		post, err := posts.GetActiveForUpdate(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return ErrPostNotFound
		}
		if post.AuthorID != requesterID {
			return ErrNotOwner
		}
		return posts.SoftDelete(ctx, postID)
	})
	if err != nil {
		return err
	}

	s.events.Emit(ctx, requesterID, queue.EventPostDeleted, queue.PostEventData{PostID: postID, AuthorID: requesterID})
	s.logger.WithField("post_id", postID).Info("Post deleted")
	return nil
}

func newPostView(post *models.Post, likes []models.Like) models.PostView {
	if likes == nil {
		likes = []models.Like{}
	}
	return models.PostView{
		ID:          post.ID,
		Content:     post.Content,
		Attachments: post.AttachmentLinks(),
		Author:      models.AuthorRef{ID: post.Author.ID, Name: post.Author.Name},
		Likes:       likes,
		SoftDelete:  post.SoftDelete,
	}
}
