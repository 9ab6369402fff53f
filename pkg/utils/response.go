package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	sharedDomain "github.com/LeHongMinh-ST/ca-eco/internal/shared/domain"
)

// ErrorResponse define la estructura estándar para las respuestas de error.
type ErrorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// SendSuccess envía una respuesta exitosa con un payload de datos.
func SendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"data": data,
	})
}

// SendError envía una respuesta de error con un formato estandarizado.
func SendError(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{
		"error": ErrorResponse{
			Message: message,
		},
	})
}

// SendDomainError traduce los errores de dominio a su código HTTP.
func SendDomainError(c *gin.Context, err error) {
	var vErr *sharedDomain.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": ErrorResponse{Message: vErr.Message, Field: vErr.Field},
		})
	case errors.Is(err, sharedDomain.ErrValidation):
		SendBadRequest(c, err.Error())
	case errors.Is(err, sharedDomain.ErrNotFound):
		SendNotFound(c, err.Error())
	case errors.Is(err, sharedDomain.ErrConflict):
		SendError(c, http.StatusConflict, err.Error())
	default:
		SendInternalServerError(c, err.Error())
	}
}

// --- Helpers específicos para errores comunes ---

func SendBadRequest(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message)
}

func SendNotFound(c *gin.Context, message string) {
	SendError(c, http.StatusNotFound, message)
}

func SendInternalServerError(c *gin.Context, message string) {
	SendError(c, http.StatusInternalServerError, message)
}
