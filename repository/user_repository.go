package repository

import (
	"database/sql"
	"time"

	"contract-registry-api/logger"
	"contract-registry-api/model"

	"github.com/sirupsen/logrus"
)

// IUserRepository defines the contract for user account persistence.
type IUserRepository interface {
	CreateUser(user *model.User) error
	GetUserByUsername(username string) (*model.User, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	GetUserByResetToken(token string) (*model.User, error)
	GetAllUsers() ([]*model.User, error)
	GetUserStats() (*model.UserStats, error)
	UpdateUserStatus(userID int, status model.Status) error
	UpdateUserRole(userID int, role model.Role) error
	UpdateProfile(user *model.User) error
	SetResetToken(userID int, token string, expiry time.Time) error
	UpdatePassword(userID int, passwordHash string) error
	TouchLastLogin(userID int) error
}

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `u.id, u.username, u.email, u.password, u.firstname, u.surname, u.position,
	u.role, u.status, u.division_id, COALESCE(d.name, ''), u.created_at, u.updated_at`

func scanUser(row *sql.Row) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.FirstName,
		&user.Surname, &user.Position, &user.Role, &user.Status, &user.DivisionID,
		&user.DivisionName, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) CreateUser(user *model.User) error {
	log := logger.Log.WithFields(logrus.Fields{
		"username": user.Username,
		"email":    user.Email,
	})
	log.Info("Executing query to create a new user")

	query := `INSERT INTO users (username, email, password, firstname, surname, position, role, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id, created_at`
	err := r.DB.QueryRow(query, user.Username, user.Email, user.Password, user.FirstName,
		user.Surname, user.Position, user.Role, user.Status).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create user query")
		return err
	}
	return nil
}

func (r *UserRepository) GetUserByUsername(username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u LEFT JOIN divisions d ON u.division_id = d.id WHERE u.username = $1`
	return scanUser(r.DB.QueryRow(query, username))
}

func (r *UserRepository) GetUserByEmail(email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u LEFT JOIN divisions d ON u.division_id = d.id WHERE u.email = $1`
	return scanUser(r.DB.QueryRow(query, email))
}

func (r *UserRepository) GetUserByID(id int) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u LEFT JOIN divisions d ON u.division_id = d.id WHERE u.id = $1`
	return scanUser(r.DB.QueryRow(query, id))
}

// GetUserByResetToken finds the user holding an unexpired reset token.
func (r *UserRepository) GetUserByResetToken(token string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u LEFT JOIN divisions d ON u.division_id = d.id
		WHERE u.reset_token = $1 AND u.reset_token_expiry > now()`
	return scanUser(r.DB.QueryRow(query, token))
}

// GetAllUsers retrieves every account, newest first. For admin use only.
func (r *UserRepository) GetAllUsers() ([]*model.User, error) {
	log := logger.Log
	log.Info("Executing query to get all users")

	query := `SELECT ` + userColumns + ` FROM users u LEFT JOIN divisions d ON u.division_id = d.id
		ORDER BY u.created_at DESC`
	rows, err := r.DB.Query(query)
	if err != nil {
		log.WithError(err).Error("Failed to execute query for all users")
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user := &model.User{}
		if err := rows.Scan(&user.ID, &user.Username, &user.Email, &user.Password, &user.FirstName,
			&user.Surname, &user.Position, &user.Role, &user.Status, &user.DivisionID,
			&user.DivisionName, &user.CreatedAt, &user.UpdatedAt); err != nil {
			log.WithError(err).Error("Failed to scan user row")
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// GetUserStats summarizes account statuses for the admin dashboard.
func (r *UserRepository) GetUserStats() (*model.UserStats, error) {
	stats := &model.UserStats{}
	query := `SELECT
		COUNT(*),
		COUNT(*) FILTER (WHERE status = 'pending'),
		COUNT(*) FILTER (WHERE status = 'approved'),
		COUNT(*) FILTER (WHERE status = 'rejected')
		FROM users`
	err := r.DB.QueryRow(query).Scan(&stats.Total, &stats.Pending, &stats.Approved, &stats.Rejected)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute user stats query")
		return nil, err
	}
	return stats, nil
}

func (r *UserRepository) UpdateUserStatus(userID int, status model.Status) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"status":  status,
	})
	log.Info("Executing query to update user status")

	query := `UPDATE users SET status = $1, updated_at = now() WHERE id = $2`
	result, err := r.DB.Exec(query, status, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute update user status query")
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *UserRepository) UpdateUserRole(userID int, role model.Role) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"role":    role,
	})
	log.Info("Executing query to update user role")

	query := `UPDATE users SET role = $1, updated_at = now() WHERE id = $2`
	result, err := r.DB.Exec(query, role, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute update user role query")
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateProfile persists the self-editable profile fields.
func (r *UserRepository) UpdateProfile(user *model.User) error {
	log := logger.Log.WithField("user_id", user.ID)
	log.Info("Executing query to update user profile")

	query := `UPDATE users SET email = $1, firstname = $2, surname = $3, position = $4, updated_at = now() WHERE id = $5`
	result, err := r.DB.Exec(query, user.Email, user.FirstName, user.Surname, user.Position, user.ID)
	if err != nil {
		log.WithError(err).Error("Failed to execute update profile query")
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *UserRepository) SetResetToken(userID int, token string, expiry time.Time) error {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to set password reset token")

	query := `UPDATE users SET reset_token = $1, reset_token_expiry = $2 WHERE id = $3`
	_, err := r.DB.Exec(query, token, expiry, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute set reset token query")
	}
	return err
}

// UpdatePassword stores a new password hash and clears any reset token.
func (r *UserRepository) UpdatePassword(userID int, passwordHash string) error {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to update user password")

	query := `UPDATE users SET password = $1, reset_token = NULL, reset_token_expiry = NULL WHERE id = $2`
	_, err := r.DB.Exec(query, passwordHash, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute update password query")
	}
	return err
}

// TouchLastLogin records a successful authentication.
func (r *UserRepository) TouchLastLogin(userID int) error {
	query := `UPDATE users SET updated_at = now() WHERE id = $1`
	_, err := r.DB.Exec(query, userID)
	if err != nil {
		logger.Log.WithField("user_id", userID).WithError(err).Error("Failed to update last login timestamp")
	}
	return err
}
