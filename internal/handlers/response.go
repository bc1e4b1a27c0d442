package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/darekanikki/diary-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func respondAPIError(c *gin.Context, ae *apierr.Error) {
	RespondError(c, ae.Status, ae.Code, ae.Err)
}

// respondServiceError translates service errors into the wire
// envelope. Anything that is not a typed api error stays off the wire
// and surfaces as a plain 500.
func respondServiceError(c *gin.Context, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		respondAPIError(c, ae)
		return
	}
	RespondError(c, http.StatusInternalServerError, apierr.CodeInternalError, errors.New("Internal server error"))
}
