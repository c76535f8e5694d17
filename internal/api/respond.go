package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// errorBody is the uniform error envelope every handled failure uses.
// Business logic never formats HTTP responses; handlers funnel everything
// through these helpers.
type errorBody struct {
	Error     string `json:"error"`
	Path      string `json:"path"`
	Method    string `json:"method"`
	Timestamp string `json:"timestamp"`
}

type validationBody struct {
	errorBody
	Details []fieldIssue `json:"details"`
}

type fieldIssue struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

func envelope(c *gin.Context, msg string) errorBody {
	return errorBody{
		Error:     msg,
		Path:      c.Request.URL.Path,
		Method:    c.Request.Method,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, envelope(c, msg))
}

// respondBindError translates body-binding failures: schema-constraint
// violations become 422 with per-field details, anything else (malformed
// JSON, bad ids) becomes 400.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]fieldIssue, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, fieldIssue{Field: fe.Field(), Issue: fe.Tag()})
		}
		c.JSON(http.StatusUnprocessableEntity, validationBody{
			errorBody: envelope(c, "Validation failed"),
			Details:   details,
		})
		return
	}

	respondError(c, http.StatusBadRequest, err.Error())
}
