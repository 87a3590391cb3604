package repository

import (
	"context"
	"database/sql"
	"service-desk/logger"
	"service-desk/model"

	"github.com/sirupsen/logrus"
)

// IUserRepository defines the contract for account storage.
type IUserRepository interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	UsernameTaken(ctx context.Context, username string, excludeID int) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID int) (bool, error)
	UpdateProfile(ctx context.Context, user *model.User) error
}

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{DB: db}
}

const userColumns = `id, username, email, display_name, password, is_active, is_activated, is_admin_panel, is_staff, is_superuser, date_joined`

func scanUser(row rowScanner) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.DisplayName, &user.Password,
		&user.IsActive, &user.IsActivated, &user.IsAdminPanel, &user.IsStaff, &user.IsSuperuser, &user.DateJoined)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// CreateUser inserts a new account and fills in its ID and join date.
func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) error {
	log := logger.Log.WithFields(logrus.Fields{
		"username": user.Username,
		"email":    user.Email,
	})
	log.Info("Executing query to create a new user")

	query := `INSERT INTO users (username, email, display_name, password, is_active, is_activated, is_admin_panel, is_staff, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id, date_joined`
	err := r.DB.QueryRowContext(ctx, query, user.Username, user.Email, user.DisplayName, user.Password,
		user.IsActive, user.IsActivated, user.IsAdminPanel, user.IsStaff, user.IsSuperuser).Scan(&user.ID, &user.DateJoined)
	if err != nil {
		log.WithError(err).Error("Failed to execute create user query")
		return mapError(err)
	}
	return nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id int) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).WithField("user_id", id).Error("Failed to execute get user by ID query")
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, username))
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).WithField("username", username).Error("Failed to execute get user by username query")
		}
		return nil, err
	}
	return user, nil
}

// UsernameTaken reports whether an account other than excludeID holds username.
// Pass excludeID 0 when no record is being edited.
func (r *UserRepository) UsernameTaken(ctx context.Context, username string, excludeID int) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 AND id <> $2)`, username, excludeID)
}

// EmailTaken reports whether an account other than excludeID holds email.
func (r *UserRepository) EmailTaken(ctx context.Context, email string, excludeID int) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`, email, excludeID)
}

func (r *UserRepository) exists(ctx context.Context, query, value string, excludeID int) (bool, error) {
	var found bool
	if err := r.DB.QueryRowContext(ctx, query, value, excludeID).Scan(&found); err != nil {
		logger.Log.WithError(err).WithField("value", value).Error("Failed to execute uniqueness query")
		return false, err
	}
	return found, nil
}

// UpdateProfile stores the editable profile fields of user.
func (r *UserRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	log := logger.Log.WithField("user_id", user.ID)
	log.Info("Executing query to update user profile")

	query := `UPDATE users SET username = $1, email = $2, display_name = $3 WHERE id = $4`
	res, err := r.DB.ExecContext(ctx, query, user.Username, user.Email, user.DisplayName, user.ID)
	if err != nil {
		log.WithError(err).Error("Failed to execute update profile query")
		return mapError(err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
