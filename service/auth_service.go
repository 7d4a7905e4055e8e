package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"contract-registry-api/config"
	"contract-registry-api/logger"
	"contract-registry-api/model"
	"contract-registry-api/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is the validity window of an issued session token. The session
// cookie's Max-Age must always equal this value.
const TokenTTL = 8 * time.Hour

// bcryptCost is high enough to resist offline brute force on leaked hashes.
const bcryptCost = 12

// ErrInvalidCredentials covers both unknown usernames and wrong passwords so
// a caller cannot probe which usernames exist.
var ErrInvalidCredentials = errors.New("invalid username or password")

// AccountStatusError is returned when credentials are valid but the account
// status forbids login. Each status carries its own user-facing reason.
type AccountStatusError struct {
	Status model.Status
}

func (e *AccountStatusError) Error() string {
	switch e.Status {
	case model.StatusPending:
		return "Your account is awaiting administrator approval"
	case model.StatusRejected:
		return "Your account has been rejected. Please contact an administrator"
	case model.StatusSuspended:
		return "Your account has been suspended. Please contact an administrator"
	case model.StatusInactive:
		return "Your account is inactive. Please contact an administrator"
	}
	return "Your account status does not permit login"
}

// dummyHash keeps the bcrypt comparison on the unknown-username path so its
// timing matches the wrong-password path.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("placeholder-password"), bcryptCost)

func getJwtKey() []byte {
	return []byte(config.AppConfig.JWT.SecretKey)
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken mints a signed session token embedding the user's identity,
// role and division. Expiry is fixed at TokenTTL from issuance.
func GenerateToken(user *model.User) (string, error) {
	now := time.Now()

	claims := &model.AppClaims{
		UserID:     user.ID,
		Username:   user.Username,
		Role:       user.Role,
		DivisionID: user.DivisionID,
		FullName:   user.FullName(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(getJwtKey())
	if err != nil {
		logger.Log.WithError(err).WithField("username", user.Username).Error("Failed to sign token")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}

	return tokenString, nil
}

// VerifyToken validates the signature and expiry of a token string and
// returns its typed claims. Any failure, including a malformed token or an
// unexpected signing method, yields an error and no claims. The function has
// no side effects and may be called any number of times for the same token.
func VerifyToken(tokenString string) (*model.AppClaims, error) {
	claims := &model.AppClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getJwtKey(), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}

	return claims, nil
}

// AuthService handles authentication against the credential store.
type AuthService struct {
	userRepo repository.IUserRepository
}

func NewAuthService(userRepo repository.IUserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Login verifies credentials and account status, and on success issues a
// session token. The account's last-login timestamp is updated as a side
// effect; a failed login changes nothing.
func (s *AuthService) Login(username, password string) (*model.User, string, error) {
	user, err := s.userRepo.GetUserByUsername(username)
	if err != nil {
		// Burn a comparison anyway so unknown usernames are not
		// distinguishable by response time.
		bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, "", ErrInvalidCredentials
	}

	if user.Status != model.StatusApproved {
		return nil, "", &AccountStatusError{Status: user.Status}
	}

	if !CheckPasswordHash(password, user.Password) {
		return nil, "", ErrInvalidCredentials
	}

	tokenString, err := GenerateToken(user)
	if err != nil {
		return nil, "", err
	}

	if err := s.userRepo.TouchLastLogin(user.ID); err != nil {
		logger.Log.WithError(err).WithField("user_id", user.ID).Warn("Could not update last login timestamp")
	}

	logger.Log.WithField("user_id", user.ID).Info("User logged in")
	return user, tokenString, nil
}
