package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/netcode-labs/auth-service/internal/model"
	"github.com/netcode-labs/auth-service/internal/service"
	"github.com/rs/zerolog"
)

const (
	msgUserNotFound      = "The requested user was not found"
	msgTokenNotFound     = "The requested token was not found"
	msgUnauthorized      = "Unauthorized"
	msgNotAuthenticated  = "Not authenticated"
	msgInsufficientRole  = "Insufficient permissions"
	msgUserAlreadyExists = "The user already exists"
	msgInternalError     = "Internal Server Error"
	msgValidationError   = "Validation Error"
)

// writeAuthError maps domain errors to transport status exactly once, here.
// Unexpected errors are logged with an error id and surfaced as a generic 500
// unless debug is enabled.
func writeAuthError(c *gin.Context, debug bool, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		writeError(c, http.StatusNotFound, msgUserNotFound)
	case errors.Is(err, service.ErrTokenNotFound):
		writeError(c, http.StatusNotFound, msgTokenNotFound)
	case errors.Is(err, service.ErrUnauthorized):
		writeError(c, http.StatusUnauthorized, msgUnauthorized)
	case errors.Is(err, service.ErrNotAuthenticated):
		writeError(c, http.StatusForbidden, msgNotAuthenticated)
	case errors.Is(err, service.ErrForbidden):
		writeError(c, http.StatusForbidden, msgInsufficientRole)
	case errors.Is(err, service.ErrUserAlreadyExists):
		writeError(c, http.StatusConflict, msgUserAlreadyExists)
	default:
		errorID := uuid.NewString()
		zerolog.Ctx(c.Request.Context()).Error().
			Err(err).
			Str("error_id", errorID).
			Msg("internal error")
		message := msgInternalError
		if debug {
			message = err.Error()
		}
		writeError(c, http.StatusInternalServerError, message)
	}
	c.Abort()
}

func writeError(c *gin.Context, status int, message string) {
	c.JSON(status, model.ErrorResponse{
		Status:    status,
		Error:     message,
		Timestamp: time.Now().Unix(),
	})
}

// writeValidationError turns gin binding failures into the 422 body shape,
// listing each offending field.
func writeValidationError(c *gin.Context, err error) {
	status := http.StatusUnprocessableEntity

	var fieldErrs []model.FieldError
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fieldErrs = append(fieldErrs, model.FieldError{
				Field:   fe.Field(),
				Message: validationMessage(fe),
			})
		}
	} else {
		fieldErrs = append(fieldErrs, model.FieldError{Field: "body", Message: err.Error()})
	}

	c.AbortWithStatusJSON(status, model.ValidationErrorResponse{
		Status:    status,
		Error:     msgValidationError,
		Timestamp: time.Now().Unix(),
		Errors:    fieldErrs,
	})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "value is too short"
	case "eqfield":
		return "must match " + fe.Param()
	default:
		return "invalid value"
	}
}
