package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FreightLink/FreightLink/internal/common/errs"
)

// fail writes the error body with the HTTP status its kind maps to.
// Untyped errors become 500 without leaking the internal message.
func fail(c *gin.Context, err error) {
	kind := errs.KindOf(err)
	status := statusOf(kind)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	c.JSON(status, gin.H{"error": msg, "code": kind.String()})
}

func statusOf(k errs.Kind) int {
	switch k {
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindValidation, errs.KindInvalidTransition, errs.KindInsufficientCapacity:
		return http.StatusBadRequest
	case errs.KindDuplicateBid, errs.KindConcurrencyConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
