package repository

import (
	"database/sql"
	"os"
	"testing"
	"time"

	"contract-registry-api/logger"
	"contract-registry-api/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

var userRows = []string{
	"id", "username", "email", "password", "firstname", "surname", "position",
	"role", "status", "division_id", "name", "created_at", "updated_at",
}

func TestUserRepository_CreateUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)
	user := &model.User{
		Username:  "somchai",
		Email:     "somchai@example.go.th",
		Password:  "hashed",
		FirstName: "Somchai",
		Surname:   "Prasert",
		Position:  "Officer",
		Role:      model.RoleUser,
		Status:    model.StatusPending,
	}

	created := time.Now()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("somchai", "somchai@example.go.th", "hashed", "Somchai", "Prasert",
			"Officer", model.RoleUser, model.StatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(7, created))

	assert.NoError(t, repo.CreateUser(user))
	assert.Equal(t, 7, user.ID)
	assert.Equal(t, created, user.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetUserByUsername(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)

	t.Run("found with division", func(t *testing.T) {
		created := time.Now()
		mock.ExpectQuery("SELECT (.+) FROM users u LEFT JOIN divisions d").
			WithArgs("somchai").
			WillReturnRows(sqlmock.NewRows(userRows).AddRow(
				7, "somchai", "somchai@example.go.th", "hashed", "Somchai", "Prasert",
				"Officer", "user", "approved", 2, "Provincial Office", created, nil))

		user, err := repo.GetUserByUsername("somchai")
		assert.NoError(t, err)
		assert.Equal(t, 7, user.ID)
		assert.Equal(t, model.StatusApproved, user.Status)
		assert.NotNil(t, user.DivisionID)
		assert.Equal(t, 2, *user.DivisionID)
		assert.Equal(t, "Provincial Office", user.DivisionName)
		assert.Nil(t, user.UpdatedAt)
	})

	t.Run("found without division", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users u LEFT JOIN divisions d").
			WithArgs("admin").
			WillReturnRows(sqlmock.NewRows(userRows).AddRow(
				1, "admin", "admin@example.go.th", "hashed", "Admin", "Root",
				"Administrator", "super_admin", "approved", nil, "", time.Now(), nil))

		user, err := repo.GetUserByUsername("admin")
		assert.NoError(t, err)
		assert.Equal(t, model.RoleSuperAdmin, user.Role)
		assert.Nil(t, user.DivisionID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users u LEFT JOIN divisions d").
			WithArgs("ghost").
			WillReturnError(sql.ErrNoRows)

		user, err := repo.GetUserByUsername("ghost")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, user)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_GetUserStats(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"count", "pending", "approved", "rejected"}).
			AddRow(10, 3, 6, 1))

	stats, err := repo.GetUserStats()
	assert.NoError(t, err)
	assert.Equal(t, &model.UserStats{Total: 10, Pending: 3, Approved: 6, Rejected: 1}, stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdateUserStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)

	t.Run("updates an existing user", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET status").
			WithArgs(model.StatusApproved, 7).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateUserStatus(7, model.StatusApproved))
	})

	t.Run("missing user yields ErrNoRows", func(t *testing.T) {
		mock.ExpectExec("UPDATE users SET status").
			WithArgs(model.StatusApproved, 99).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.UpdateUserStatus(99, model.StatusApproved), sql.ErrNoRows)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()

	repo := NewUserRepository(db)

	// The reset token must be cleared in the same statement.
	mock.ExpectExec("UPDATE users SET password = (.+) reset_token = NULL").
		WithArgs("newhash", 7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.UpdatePassword(7, "newhash"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
