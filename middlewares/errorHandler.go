package middlewares

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/mmfintech/bytebank_backend/config"
	"github.com/mmfintech/bytebank_backend/utils"
	"github.com/sirupsen/logrus"
)

// RespondError translates the error taxonomy into an HTTP status and the
// response envelope. Internal details are only exposed outside production.
func RespondError(c *gin.Context, err error) {
	var validationErr *utils.ValidationError
	if errors.As(err, &validationErr) {
		fieldErrors := make([]gin.H, 0, len(validationErr.Fields))
		for field, message := range validationErr.Fields {
			fieldErrors = append(fieldErrors, gin.H{"field": field, "message": message})
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation failed",
			"errors":  fieldErrors,
		})
		return
	}

	var duplicateErr *utils.DuplicateError
	if errors.As(err, &duplicateErr) {
		c.JSON(http.StatusBadRequest, gin.H{"message": duplicateErr.Field + " already exists"})
		return
	}

	var authErr *utils.AuthError
	if errors.As(err, &authErr) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": authErr.Message})
		return
	}

	switch {
	case errors.Is(err, utils.ErrorRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Record not found"})
	case errors.Is(err, utils.ErrorInvalidPagination):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, utils.ErrorTokenExpired), errors.Is(err, utils.ErrorInvalidToken), errors.Is(err, utils.ErrorUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
	default:
		logger := config.GetLogger()
		logger.WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}).Error(err.Error())

		body := gin.H{"message": "Internal server error"}
		if os.Getenv("GO_ENV") != "production" {
			body["detail"] = err.Error()
		}
		c.JSON(http.StatusInternalServerError, body)
	}
}
