package httperr

import (
	"garage-booking/internal/pkg/errs"
	"garage-booking/internal/pkg/validation"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// FieldDetail tells the client which form field failed and echoes the submitted form.
type FieldDetail struct {
	Field  string                 `json:"field"`
	Reason string                 `json:"reason"`
	Form   map[string]any         `json:"form,omitempty"`
	Errors validation.FieldErrors `json:"errors,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		err = errs.New(msg)
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
