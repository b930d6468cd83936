package handlers

import (
	"net/http"

	"github.com/clitter/clitter/internal/httputil"
	"github.com/clitter/clitter/internal/middleware"
	"github.com/clitter/clitter/internal/services"
	"github.com/clitter/clitter/pkg/metrics"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	authorService *services.AuthorService
	metrics       *metrics.Metrics
}

func NewUserHandler(authorService *services.AuthorService, m *metrics.Metrics) *UserHandler {
	return &UserHandler{
		authorService: authorService,
		metrics:       m,
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.FailBinding(c, err)
		return
	}

	apiKey, created, err := h.authorService.Register(c.Request.Context(), req.Name, req.Password)
	if err != nil {
		httputil.Fail(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httputil.OK(c, status, gin.H{
		"api-key": apiKey,
		"created": created,
	})
}

func (h *UserHandler) Me(c *gin.Context) {
	author := middleware.GetAuthor(c)

	profile, err := h.authorService.Profile(c.Request.Context(), author.ID)
	if err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.OK(c, http.StatusOK, gin.H{"user": profile})
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		httputil.Fail(c, err)
		return
	}

	profile, err := h.authorService.Profile(c.Request.Context(), id)
	if err != nil {
		httputil.Fail(c, err)
		return
	}
	httputil.OK(c, http.StatusOK, gin.H{"user": profile})
}

func (h *UserHandler) Follow(c *gin.Context) {
	reader := middleware.GetAuthor(c)
	writerID, err := paramID(c, "id")
	if err != nil {
		httputil.Fail(c, err)
		return
	}

	if err := h.authorService.Follow(c.Request.Context(), reader.ID, writerID); err != nil {
		httputil.Fail(c, err)
		return
	}

	h.metrics.FollowRequests.WithLabelValues("follow").Inc()
	httputil.OK(c, http.StatusOK, nil)
}

func (h *UserHandler) Unfollow(c *gin.Context) {
	reader := middleware.GetAuthor(c)
	writerID, err := paramID(c, "id")
	if err != nil {
		httputil.Fail(c, err)
		return
	}

	if err := h.authorService.Unfollow(c.Request.Context(), reader.ID, writerID); err != nil {
		httputil.Fail(c, err)
		return
	}

	h.metrics.FollowRequests.WithLabelValues("unfollow").Inc()
	httputil.OK(c, http.StatusOK, nil)
}
