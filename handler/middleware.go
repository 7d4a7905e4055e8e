package handler

import (
	"context"
	"net/http"
	"runtime/debug"
	"time"

	"contract-registry-api/common"
	"contract-registry-api/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const requestIDKey contextKey = "reqid"

// RequestID tags every request with an X-Request-Id, generating one when the
// client did not supply it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func GetRequestID(r *http.Request) string {
	if id, ok := r.Context().Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// AccessLog logs one structured line per completed request.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w}
		start := time.Now()
		next.ServeHTTP(sw, r)

		logger.Log.WithFields(logrus.Fields{
			"reqid":    GetRequestID(r),
			"method":   r.Method,
			"uri":      r.RequestURI,
			"status":   sw.status,
			"bytes":    sw.bytes,
			"duration": time.Since(start).String(),
			"ip":       r.RemoteAddr,
		}).Info("Request completed")
	})
}

// Recoverer converts a handler panic into a logged 500 response.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Log.WithFields(logrus.Fields{
					"reqid": GetRequestID(r),
					"uri":   r.RequestURI,
					"panic": rec,
					"stack": string(debug.Stack()),
				}).Error("Panic recovered in handler")
				common.NewAppError(http.StatusInternalServerError, "Internal server error", nil).Send(w)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
