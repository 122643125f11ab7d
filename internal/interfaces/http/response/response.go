package response

import (
	"github.com/gin-gonic/gin"

	domainerrors "github.com/dalikhouaja008/B-rich-backend/internal/domain/errors"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error maps a domain error onto its HTTP status and sends it
func Error(c *gin.Context, err error) {
	status := domainerrors.StatusCode(err)
	c.JSON(status, gin.H{
		"code":    status,
		"message": err.Error(),
	})
}
