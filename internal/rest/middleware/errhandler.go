package middleware

import (
	"encoding/json"
	"strings"

	"github.com/cockroachdb/errors"
	ierr "github.com/flexprice/proposals/internal/errors"
	"github.com/flexprice/proposals/internal/logger"
	"github.com/gin-gonic/gin"
)

const safeDetailsJSONPrefix = "__json__:"

// ErrorHandler renders the last error attached with c.Error
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := ierr.HTTPStatusFromErr(err)
		if status >= 500 {
			log.Errorw("request failed",
				"method", c.Request.Method,
				"path", c.FullPath(),
				"status", status,
				"error", err,
			)
		}

		c.JSON(status, ierr.ErrorResponse{
			Success: false,
			Error: ierr.ErrorDetail{
				Display: getDisplayMessage(err),
				Details: getSafeDetails(err),
			},
		})
	}
}

func getDisplayMessage(err error) string {
	// GetAllHints is a post-order traversal, the first non-empty hint wins
	for _, hint := range errors.GetAllHints(err) {
		if hint = strings.TrimSpace(hint); hint != "" {
			return hint
		}
	}
	return "An unexpected error occurred"
}

func getSafeDetails(err error) map[string]any {
	details := make(map[string]any)

	for _, sdp := range errors.GetAllSafeDetails(err) {
		for _, payload := range sdp.SafeDetails {
			if !strings.HasPrefix(payload, safeDetailsJSONPrefix) {
				continue
			}
			var jsonDetails map[string]any
			if err := json.Unmarshal([]byte(payload[len(safeDetailsJSONPrefix):]), &jsonDetails); err == nil {
				for k, v := range jsonDetails {
					details[k] = v
				}
			}
		}
	}

	return details
}
