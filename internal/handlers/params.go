package handlers

import (
	"strconv"

	"github.com/clitter/clitter/internal/services"
	"github.com/gin-gonic/gin"
)

func paramID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, services.NewValidationError(name + " must be a positive integer")
	}
	return id, nil
}
