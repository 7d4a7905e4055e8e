package service

import (
	"database/sql"
	"os"
	"strings"
	"testing"
	"time"

	"contract-registry-api/config"
	"contract-registry-api/logger"
	"contract-registry-api/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.Init()
	config.AppConfig.JWT.SecretKey = "unit-test-secret"
	os.Exit(m.Run())
}

// mockUserRepo is a mock implementation of repository.IUserRepository shared
// by the service tests in this package.
type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}
func (m *mockUserRepo) GetUserByUsername(username string) (*model.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *mockUserRepo) GetUserByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *mockUserRepo) GetUserByID(id int) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *mockUserRepo) GetUserByResetToken(token string) (*model.User, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *mockUserRepo) GetAllUsers() ([]*model.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}
func (m *mockUserRepo) GetUserStats() (*model.UserStats, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserStats), args.Error(1)
}
func (m *mockUserRepo) UpdateUserStatus(userID int, status model.Status) error {
	args := m.Called(userID, status)
	return args.Error(0)
}
func (m *mockUserRepo) UpdateUserRole(userID int, role model.Role) error {
	args := m.Called(userID, role)
	return args.Error(0)
}
func (m *mockUserRepo) UpdateProfile(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}
func (m *mockUserRepo) SetResetToken(userID int, token string, expiry time.Time) error {
	args := m.Called(userID, token, expiry)
	return args.Error(0)
}
func (m *mockUserRepo) UpdatePassword(userID int, passwordHash string) error {
	args := m.Called(userID, passwordHash)
	return args.Error(0)
}
func (m *mockUserRepo) TouchLastLogin(userID int) error {
	args := m.Called(userID)
	return args.Error(0)
}

func TestHashAndCheckPassword(t *testing.T) {
	password := "mySecretPassword123"

	hashedPassword, err := HashPassword(password)
	assert.NoError(t, err)
	assert.NotEqual(t, password, hashedPassword)

	assert.True(t, CheckPasswordHash(password, hashedPassword))
	assert.False(t, CheckPasswordHash("notMyPassword", hashedPassword))
}

func approvedUser(t *testing.T, divisionID *int) *model.User {
	t.Helper()
	hash, err := HashPassword("correct-horse")
	assert.NoError(t, err)
	return &model.User{
		ID:         7,
		Username:   "somchai",
		Email:      "somchai@example.go.th",
		Password:   hash,
		FirstName:  "Somchai",
		Surname:    "Prasert",
		Position:   "Officer",
		Role:       model.RoleUser,
		Status:     model.StatusApproved,
		DivisionID: divisionID,
	}
}

func TestGenerateAndVerifyToken(t *testing.T) {
	division := 2
	user := approvedUser(t, &division)

	tokenString, err := GenerateToken(user)
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	claims, err := VerifyToken(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Username, claims.Username)
	assert.Equal(t, model.RoleUser, claims.Role)
	assert.NotNil(t, claims.DivisionID)
	assert.Equal(t, division, *claims.DivisionID)
	assert.Equal(t, "Somchai Prasert", claims.FullName)

	expiry := claims.ExpiresAt.Time
	issued := claims.IssuedAt.Time
	assert.Equal(t, TokenTTL, expiry.Sub(issued))

	// Verification is idempotent: the same token decodes to the same claims.
	again, err := VerifyToken(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, claims.UserID, again.UserID)
	assert.Equal(t, claims.Role, again.Role)
	assert.Equal(t, claims.ExpiresAt.Time, again.ExpiresAt.Time)
}

func TestVerifyToken_Expired(t *testing.T) {
	now := time.Now()
	claims := &model.AppClaims{
		UserID:   7,
		Username: "somchai",
		Role:     model.RoleUser,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Add(-9 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(config.AppConfig.JWT.SecretKey))
	assert.NoError(t, err)

	// Correctly signed but past expiry: never trusted.
	result, err := VerifyToken(tokenString)
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestVerifyToken_Tampered(t *testing.T) {
	user := approvedUser(t, nil)
	tokenString, err := GenerateToken(user)
	assert.NoError(t, err)

	parts := strings.Split(tokenString, ".")
	assert.Len(t, parts, 3)

	// Flip one character of the payload section; the signature no longer
	// matches.
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	result, err := VerifyToken(tampered)
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestVerifyToken_Garbage(t *testing.T) {
	for _, tokenString := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		result, err := VerifyToken(tokenString)
		assert.Error(t, err, "token %q must not verify", tokenString)
		assert.Nil(t, result)
	}
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	claims := &model.AppClaims{
		UserID: 7,
		Role:   model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte("a-different-secret"))
	assert.NoError(t, err)

	result, err := VerifyToken(tokenString)
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestAuthService_Login(t *testing.T) {
	t.Run("success issues a token matching the stored record", func(t *testing.T) {
		division := 2
		user := approvedUser(t, &division)

		mockRepo := new(mockUserRepo)
		mockRepo.On("GetUserByUsername", "somchai").Return(user, nil).Once()
		mockRepo.On("TouchLastLogin", user.ID).Return(nil).Once()

		authService := NewAuthService(mockRepo)
		loggedIn, tokenString, err := authService.Login("somchai", "correct-horse")

		assert.NoError(t, err)
		assert.Equal(t, user, loggedIn)

		claims, err := VerifyToken(tokenString)
		assert.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, user.Role, claims.Role)
		assert.Equal(t, division, *claims.DivisionID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("unknown user gets the generic credential error", func(t *testing.T) {
		mockRepo := new(mockUserRepo)
		mockRepo.On("GetUserByUsername", "nobody").Return(nil, sql.ErrNoRows).Once()

		authService := NewAuthService(mockRepo)
		_, _, err := authService.Login("nobody", "whatever")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		mockRepo.AssertNotCalled(t, "TouchLastLogin")
	})

	t.Run("wrong password gets the same generic error", func(t *testing.T) {
		user := approvedUser(t, nil)

		mockRepo := new(mockUserRepo)
		mockRepo.On("GetUserByUsername", "somchai").Return(user, nil).Once()

		authService := NewAuthService(mockRepo)
		_, _, err := authService.Login("somchai", "wrong-password")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		mockRepo.AssertNotCalled(t, "TouchLastLogin")
	})

	t.Run("non-approved statuses refuse issuance with distinct reasons", func(t *testing.T) {
		seen := map[string]bool{}
		for _, status := range []model.Status{
			model.StatusPending, model.StatusRejected, model.StatusSuspended, model.StatusInactive,
		} {
			user := approvedUser(t, nil)
			user.Status = status

			mockRepo := new(mockUserRepo)
			mockRepo.On("GetUserByUsername", "somchai").Return(user, nil).Once()

			authService := NewAuthService(mockRepo)
			_, tokenString, err := authService.Login("somchai", "correct-horse")

			assert.Empty(t, tokenString)
			var statusErr *AccountStatusError
			assert.ErrorAs(t, err, &statusErr)
			assert.Equal(t, status, statusErr.Status)
			assert.False(t, seen[statusErr.Error()], "status %s reuses another status's message", status)
			seen[statusErr.Error()] = true
			mockRepo.AssertNotCalled(t, "TouchLastLogin")
		}
	})
}
