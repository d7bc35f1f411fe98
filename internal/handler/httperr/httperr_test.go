//go:build unit

package httperr_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"garage-booking/internal/handler/httperr"
	"garage-booking/internal/pkg/errs"
	"garage-booking/internal/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAbortWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("field detail is rendered and the error recorded", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		cause := errs.New("slot taken")

		httperr.AbortWithError(c, http.StatusConflict, cause, "slot unavailable", httperr.FieldDetail{
			Field:  "slot_id",
			Reason: "slot_unavailable",
			Form:   map[string]any{"slot_id": 7},
			Errors: validation.FieldErrors{{Field: "slot_id", Message: "slot_id is required"}},
		})

		assert.True(t, c.IsAborted())
		assert.Equal(t, http.StatusConflict, w.Code)
		require.Len(t, c.Errors, 1)
		assert.Equal(t, cause.Error(), c.Errors[0].Err.Error())

		var body struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
			Detail struct {
				Field  string         `json:"field"`
				Reason string         `json:"reason"`
				Form   map[string]any `json:"form"`
			} `json:"detail"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "slot unavailable", body.Error.Message)
		assert.Equal(t, "slot_id", body.Detail.Field)
		assert.Equal(t, "slot_unavailable", body.Detail.Reason)
		assert.EqualValues(t, 7, body.Detail.Form["slot_id"])
	})

	t.Run("nil error falls back to the message", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Access token required", nil)

		require.Len(t, c.Errors, 1)
		assert.Equal(t, "Access token required", c.Errors[0].Err.Error())
		assert.NotContains(t, w.Body.String(), "detail")
	})
}
