package handlers

import (
	"net/http"

	"github.com/clitter/clitter/internal/httputil"
	"github.com/clitter/clitter/internal/middleware"
	"github.com/clitter/clitter/internal/services"
	"github.com/clitter/clitter/pkg/metrics"
	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postService *services.PostService
	likeService *services.LikeService
	metrics     *metrics.Metrics
}

func NewPostHandler(postService *services.PostService, likeService *services.LikeService, m *metrics.Metrics) *PostHandler {
	return &PostHandler{
		postService: postService,
		likeService: likeService,
		metrics:     m,
	}
}

// List returns the caller's own posts.
func (h *PostHandler) List(c *gin.Context) {
	author := middleware.GetAuthor(c)

	posts, err := h.postService.ListByAuthor(c.Request.Context(), author.ID)
	if err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.OK(c, http.StatusOK, gin.H{"tweets": posts})
}

func (h *PostHandler) Create(c *gin.Context) {
	author := middleware.GetAuthor(c)

	var req services.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.FailBinding(c, err)
		return
	}

	post, err := h.postService.Create(c.Request.Context(), author.ID, req.Content, req.MediaIDs)
	if err != nil {
		httputil.Fail(c, err)
		return
	}

	h.metrics.PostsCreated.Inc()
	httputil.OK(c, http.StatusCreated, gin.H{"tweet_id": post.ID})
}

func (h *PostHandler) Get(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		httputil.Fail(c, err)
		return
	}

	post, err := h.postService.Get(c.Request.Context(), id)
	if err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.OK(c, http.StatusOK, gin.H{"tweet": post})
}

func (h *PostHandler) Delete(c *gin.Context) {
	author := middleware.GetAuthor(c)
	id, err := paramID(c, "id")
	if err != nil {
		httputil.Fail(c, err)
		return
	}

	if err := h.postService.Delete(c.Request.Context(), id, author.ID); err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.OK(c, http.StatusOK, nil)
}

func (h *PostHandler) Like(c *gin.Context) {
	author := middleware.GetAuthor(c)
	id, err := paramID(c, "id")
	if err != nil {
		httputil.Fail(c, err)
		return
	}

	if err := h.likeService.AddLike(c.Request.Context(), id, author.ID); err != nil {
		httputil.Fail(c, err)
		return
	}

	h.metrics.LikeRequests.WithLabelValues("like").Inc()
	httputil.OK(c, http.StatusOK, nil)
}

func (h *PostHandler) Unlike(c *gin.Context) {
	author := middleware.GetAuthor(c)
	id, err := paramID(c, "id")
	if err != nil {
		httputil.Fail(c, err)
		return
	}

	if err := h.likeService.RemoveLike(c.Request.Context(), id, author.ID); err != nil {
		httputil.Fail(c, err)
		return
	}

	h.metrics.LikeRequests.WithLabelValues("unlike").Inc()
	httputil.OK(c, http.StatusOK, nil)
}

func (h *PostHandler) Likes(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		httputil.Fail(c, err)
		return
	}

	likes, err := h.likeService.ListLikes(c.Request.Context(), id)
	if err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.OK(c, http.StatusOK, gin.H{"likes": likes})
}
