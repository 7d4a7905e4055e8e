package service

import (
	"contract-registry-api/logger"
	"contract-registry-api/model"

	"github.com/sirupsen/logrus"
)

// Mailer delivers password reset links. Actual mail transport is outside the
// scope of this service; deployments plug in their own implementation.
type Mailer interface {
	SendPasswordReset(user *model.User, resetURL string) error
}

// LogMailer writes the reset link to the application log instead of sending
// mail. Default implementation for environments without an SMTP relay.
type LogMailer struct{}

func (LogMailer) SendPasswordReset(user *model.User, resetURL string) error {
	logger.Log.WithFields(logrus.Fields{
		"user_id": user.ID,
		"email":   user.Email,
		"url":     resetURL,
	}).Info("Password reset link issued")
	return nil
}
