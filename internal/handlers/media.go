package handlers

import (
	"net/http"

	"github.com/clitter/clitter/internal/httputil"
	"github.com/clitter/clitter/internal/services"
	"github.com/clitter/clitter/pkg/metrics"
	"github.com/gin-gonic/gin"
)

type MediaHandler struct {
	mediaService *services.MediaService
	metrics      *metrics.Metrics
}

func NewMediaHandler(mediaService *services.MediaService, m *metrics.Metrics) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
		metrics:      m,
	}
}

// Upload accepts a multipart form with the file under "file".
func (h *MediaHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		httputil.FailBinding(c, err)
		return
	}

	file, err := header.Open()
	if err != nil {
		httputil.Fail(c, services.ErrMediaImport)
		return
	}
	defer file.Close()

	media, created, err := h.mediaService.Upload(c.Request.Context(), header.Filename, file)
	if err != nil {
		httputil.Fail(c, err)
		return
	}

	result, status := "deduplicated", http.StatusOK
	if created {
		result, status = "stored", http.StatusCreated
	}
	h.metrics.MediaUploads.WithLabelValues(result).Inc()
	httputil.OK(c, status, gin.H{"media_id": media.ID, "link": media.Link})
}
