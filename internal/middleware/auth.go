package middleware

import (
	"context"

	"github.com/clitter/clitter/internal/httputil"
	"github.com/clitter/clitter/internal/models"
	"github.com/gin-gonic/gin"
)

const (
	APIKeyHeader = "api-key"
	authorKey    = "author"
)

// Resolver is satisfied by *services.AccessService.
type Resolver interface {
	Resolve(ctx context.Context, token string) (*models.Author, error)
}

// APIKeyAuth rejects requests whose api-key header does not resolve to an
// author and stores the author on the context otherwise.
func APIKeyAuth(resolver Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(APIKeyHeader)
		if token != "" {
			c.Header(APIKeyHeader, token)
		}

		author, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			httputil.Fail(c, err)
			return
		}

		c.Set(authorKey, author)
		httputil.SetLogger(c, httputil.Logger(c).WithField("author_id", author.ID))
		c.Next()
	}
}

// GetAuthor returns the author stored by APIKeyAuth, or nil.
func GetAuthor(c *gin.Context) *models.Author {
	if v, ok := c.Get(authorKey); ok {
		if author, ok := v.(*models.Author); ok {
			return author
		}
	}
	return nil
}
