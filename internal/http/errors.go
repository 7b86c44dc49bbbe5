package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"talent-portal/internal/domain"
)

func statusFor(reason domain.Reason) int {
	switch reason {
	case domain.ReasonInvalidCredentials, domain.ReasonUnauthenticated:
		return http.StatusUnauthorized
	case domain.ReasonMissingRequiredField,
		domain.ReasonConsentRequired,
		domain.ReasonFileRequired,
		domain.ReasonUnsupportedFileType,
		domain.ReasonFileTooLarge,
		domain.ReasonInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with {"error", "reason"}. Unclassified errors are
// reported as internal with a generic message.
func (h *Handler) writeError(c *gin.Context, err error) {
	var derr *domain.Error
	if !errors.As(err, &derr) {
		derr = domain.ErrInternal
	}
	status := statusFor(derr.Reason)
	message := derr.Message
	if derr.Reason == domain.ReasonInternal {
		message = domain.ErrInternal.Message
	}
	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.Request.URL.Path,
			"reason":     derr.Reason,
		}).Error("request failed")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message, "reason": derr.Reason})
}
