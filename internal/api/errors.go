package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/VitaminP8/pulse/internal/apperr"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidArgument:
		return http.StatusBadRequest
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindUnavailable:
		return http.StatusServiceUnavailable
	case apperr.KindCanceled:
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage - первое непустое сообщение в цепочке. Детали внутренних ошибок наружу не отдаются.
func publicMessage(err error) string {
	if apperr.KindOf(err) == apperr.KindInternal {
		return "internal server error"
	}
	for e := err; e != nil; e = errors.Unwrap(e) {
		var appErr *apperr.Error
		if errors.As(e, &appErr) && appErr.Message != "" {
			return appErr.Message
		}
	}
	return string(apperr.KindOf(err))
}

func (h *Handler) fail(c *gin.Context, err error) {
	status := statusFor(apperr.KindOf(err))
	if status >= http.StatusInternalServerError {
		h.Log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	} else {
		h.Log.Debug("request rejected", zap.String("path", c.FullPath()), zap.Error(err))
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": publicMessage(err)})
}

func parseID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.InvalidArgument("api", "invalid "+param)
	}
	return uint(id), nil
}

// queryInt читает необязательный целый параметр; отсутствие - 0
func queryInt(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperr.InvalidArgument("api", "invalid "+name)
	}
	return n, nil
}
