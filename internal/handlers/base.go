package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"interviewhub/internal/apperr"
	"interviewhub/internal/logger"
	"interviewhub/internal/middleware"
	"interviewhub/internal/services"
	"interviewhub/internal/utils"

	"github.com/gin-gonic/gin"
)

// base is embedded by every handler. Details controls whether the cause of a
// 500 is echoed back as "details"; it is off in production.
type base struct {
	log     *logger.Logger
	details bool
}

func newBase(log *logger.Logger, name string, details bool) base {
	return base{log: log.With("handler", name), details: details}
}

var statusByKind = map[apperr.Kind]int{
	apperr.KindValidation:   http.StatusBadRequest,
	apperr.KindNotFound:     http.StatusNotFound,
	apperr.KindConflict:     http.StatusConflict,
	apperr.KindUnauthorized: http.StatusUnauthorized,
	apperr.KindInternal:     http.StatusInternalServerError,
}

// respondError writes the {error, details?} envelope for err.
func (b base) respondError(c *gin.Context, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		ae = apperr.Internal("Internal server error", err)
	}
	status := statusByKind[ae.Kind]
	if status == 0 {
		status = http.StatusInternalServerError
	}

	body := gin.H{"error": ae.Message}
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		b.log.Error(ae.Message,
			"path", c.FullPath(),
			"request_id", c.GetString(middleware.RequestIDKey),
			"error", ae.Err,
		)
		if b.details && ae.Err != nil {
			body["details"] = ae.Err.Error()
		}
	}
	c.AbortWithStatusJSON(status, body)
}

// bindJSON decodes the body into obj without running binding rules; the
// services validate after trimming input. An empty body leaves obj zeroed.
func bindJSON(c *gin.Context, obj interface{}) error {
	if c.Request.Body == nil {
		return nil
	}
	err := json.NewDecoder(c.Request.Body).Decode(obj)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return services.ValidationError(err)
}

// experienceID parses :id. Anything but a positive integer cannot name an
// experience, so it is reported as not found.
func experienceID(c *gin.Context) (uint, error) {
	id, ok := utils.ParseID(c.Param("id"))
	if !ok {
		return 0, apperr.NotFound("Experience not found")
	}
	return id, nil
}
