package service

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"contract-registry-api/config"
	"contract-registry-api/logger"
	"contract-registry-api/model"
	"contract-registry-api/repository"
)

var (
	ErrUsernameTaken     = errors.New("username is already in use")
	ErrEmailTaken        = errors.New("email is already in use")
	ErrInvalidTransition = errors.New("invalid account status transition")
	ErrInvalidRole       = errors.New("invalid role specified")
	ErrResetTokenInvalid = errors.New("reset token is invalid or has expired")
	ErrEmailNotFound     = errors.New("no account with that email address")
)

const resetTokenTTL = time.Hour

// UserService handles account lifecycle and profile business logic.
type UserService struct {
	userRepo repository.IUserRepository
	mailer   Mailer
}

func NewUserService(userRepo repository.IUserRepository, mailer Mailer) *UserService {
	return &UserService{userRepo: userRepo, mailer: mailer}
}

// Signup creates a new account in pending status. The account cannot log in
// until an administrator approves it.
func (s *UserService) Signup(req *model.SignupRequest) (*model.User, error) {
	if _, err := s.userRepo.GetUserByUsername(req.Username); err == nil {
		return nil, ErrUsernameTaken
	}
	if _, err := s.userRepo.GetUserByEmail(req.Email); err == nil {
		return nil, ErrEmailTaken
	}

	hashedPassword, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:  req.Username,
		Email:     req.Email,
		Password:  hashedPassword,
		FirstName: req.FirstName,
		Surname:   req.Surname,
		Position:  req.Position,
		Role:      model.RoleUser,
		Status:    model.StatusPending,
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("New account registered, awaiting approval")
	return user, nil
}

// UpdateUserStatus applies an admin-triggered account lifecycle transition
// after validating it against the allowed state machine.
func (s *UserService) UpdateUserStatus(userID int, status model.Status) error {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return err
	}

	if !user.Status.CanTransitionTo(status) {
		return ErrInvalidTransition
	}

	return s.userRepo.UpdateUserStatus(userID, status)
}

// UpdateUserRole changes a user's role. Only the user and admin roles may be
// assigned through the API; super_admin is provisioned out of band.
func (s *UserService) UpdateUserRole(userID int, role model.Role) error {
	if role != model.RoleAdmin && role != model.RoleUser {
		return ErrInvalidRole
	}
	return s.userRepo.UpdateUserRole(userID, role)
}

// DeactivateUser soft-deletes an account by marking it inactive.
func (s *UserService) DeactivateUser(userID int) error {
	return s.userRepo.UpdateUserStatus(userID, model.StatusInactive)
}

// ListUsers returns every account with status statistics for the admin page.
func (s *UserService) ListUsers() ([]*model.User, *model.UserStats, error) {
	users, err := s.userRepo.GetAllUsers()
	if err != nil {
		return nil, nil, err
	}
	stats, err := s.userRepo.GetUserStats()
	if err != nil {
		return nil, nil, err
	}
	return users, stats, nil
}

// GetProfile loads the caller's own account by the identity the gate
// extracted from the token.
func (s *UserService) GetProfile(userID int) (*model.User, error) {
	return s.userRepo.GetUserByID(userID)
}

// UpdateProfile applies the self-editable fields to the caller's account.
func (s *UserService) UpdateProfile(userID int, req *model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	user.Email = req.Email
	user.FirstName = req.FirstName
	user.Surname = req.Surname
	user.Position = req.Position

	if err := s.userRepo.UpdateProfile(user); err != nil {
		return nil, err
	}
	return user, nil
}

// RequestPasswordReset mints a single-use reset token, stores it with a
// one-hour expiry and hands the reset link to the mailer.
func (s *UserService) RequestPasswordReset(email string) error {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrEmailNotFound
		}
		return err
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}
	token := hex.EncodeToString(buf)

	if err := s.userRepo.SetResetToken(user.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s", config.AppConfig.Server.BaseURL, token)
	return s.mailer.SendPasswordReset(user, resetURL)
}

// VerifyResetToken reports whether a reset token is known and unexpired.
func (s *UserService) VerifyResetToken(token string) error {
	if _, err := s.userRepo.GetUserByResetToken(token); err != nil {
		return ErrResetTokenInvalid
	}
	return nil
}

// ResetPassword sets a new password for the account holding a valid reset
// token and invalidates the token.
func (s *UserService) ResetPassword(token, password string) error {
	user, err := s.userRepo.GetUserByResetToken(token)
	if err != nil {
		return ErrResetTokenInvalid
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}

	if err := s.userRepo.UpdatePassword(user.ID, hashedPassword); err != nil {
		return err
	}

	logger.Log.WithField("user_id", user.ID).Info("Password reset completed")
	return nil
}
