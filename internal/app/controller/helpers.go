package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/hvngo/shop-backend/internal/errors"
)

// respondStorageError translates an unexpected storage error into the client
// envelope, hiding driver details.
func respondStorageError(c *gin.Context, err error, context string) {
	info := apperrors.ParseError(err, context)

	status := http.StatusInternalServerError
	switch info.Code {
	case apperrors.ResourceNotFound:
		status = http.StatusNotFound
	case apperrors.ResourceAlreadyExists, apperrors.ResourceConflict:
		status = http.StatusConflict
	case apperrors.ValidationRequired:
		status = http.StatusBadRequest
	}

	apperrors.RespondWithError(c, status, info.Code, info.Message)
}
