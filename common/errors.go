package common

import (
	"encoding/json"
	"net/http"

	"contract-registry-api/logger"

	"github.com/sirupsen/logrus"
)

// AppError is the single error type handlers return. The JSON body follows
// the API's denial envelope: {"success":false,"error":"..."}.
type AppError struct {
	Code    int    `json:"-"`
	Success bool   `json:"success"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Success: false,
		Message: message,
		Err:     err,
	}
}

func (e *AppError) Send(w http.ResponseWriter) {
	if e.Err != nil {
		logger.Log.WithFields(logrus.Fields{
			"status_code":    e.Code,
			"internal_error": e.Err.Error(),
		}).Error(e.Message)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Code)
	json.NewEncoder(w).Encode(e)
}
