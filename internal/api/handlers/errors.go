package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/linskybing/admission-portal/internal/application"
	"github.com/linskybing/admission-portal/pkg/backend"
	"github.com/linskybing/admission-portal/pkg/response"
)

const genericFailure = "Something went wrong on the server"

// respondError maps application and backend failures to a status code and
// an ErrorResponse.
func respondError(c *gin.Context, err error) {
	status, body := errorResponse(err)
	c.JSON(status, body)
}

func errorResponse(err error) (int, response.ErrorResponse) {
	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		return http.StatusUnauthorized, response.ErrorResponse{Error: backend.MessageOf(err, "Invalid email or password")}
	case application.IsSessionGone(err):
		return http.StatusUnauthorized, response.ErrorResponse{Error: "Session expired, please log in again", Code: response.CodeSessionExpired}
	case errors.Is(err, application.ErrSubmissionInFlight):
		return http.StatusConflict, response.ErrorResponse{Error: err.Error(), Code: response.CodeSubmitInFlight}
	case errors.Is(err, application.ErrModalClosed):
		return http.StatusConflict, response.ErrorResponse{Error: err.Error(), Code: response.CodeModalClosed}
	case errors.Is(err, application.ErrNotReviewable):
		return http.StatusConflict, response.ErrorResponse{Error: err.Error(), Code: response.CodeNotReviewable}
	case errors.Is(err, application.ErrApplicationNotFound):
		return http.StatusNotFound, response.ErrorResponse{Error: err.Error(), Code: response.CodeApplicationUnknown}
	case errors.Is(err, application.ErrWrongModalKind), errors.Is(err, application.ErrInvalidDecision):
		return http.StatusBadRequest, response.ErrorResponse{Error: err.Error()}
	case errors.Is(err, backend.ErrTimeout):
		return http.StatusGatewayTimeout, response.ErrorResponse{Error: backend.MessageOf(err, genericFailure), Code: response.CodeBackendTimeout}
	}

	var be *backend.Error
	if errors.As(err, &be) {
		return http.StatusBadGateway, response.ErrorResponse{Error: backend.MessageOf(err, genericFailure), Code: response.CodeBackendFailure}
	}
	return http.StatusInternalServerError, response.ErrorResponse{Error: err.Error()}
}

// bindError turns a binding failure into a readable message.
func bindError(err error) string {
	var verr validator.ValidationErrors
	if !errors.As(err, &verr) {
		return "Invalid input"
	}

	msgs := make([]string, 0, len(verr))
	for _, fe := range verr {
		field := strings.ToLower(fe.Field())
		var msg string
		switch fe.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is required", field)
		case "email":
			msg = fmt.Sprintf("%s must be a valid email address", field)
		case "oneof":
			msg = fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
		default:
			msg = fmt.Sprintf("%s is invalid", field)
		}
		msgs = append(msgs, msg)
	}
	return strings.Join(msgs, "; ")
}
