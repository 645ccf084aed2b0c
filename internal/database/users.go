package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"caravanshare/internal/models"

	"github.com/google/uuid"
)

const userColumns = `id, email, password_hash, name, contact_number, profile_picture,
	                 role, is_verified, created_at, updated_at`

func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.RoleGuest
	}
	ts := now()
	_, err := db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		nullString(user.ContactNumber),
		nullString(user.ProfilePicture),
		user.Role,
		user.IsVerified,
		formatTime(ts),
		formatTime(ts),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.CreatedAt = ts
	user.UpdatedAt = ts
	return nil
}

func (db *DB) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return db.queryUser(ctx, query, id)
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = ?`
	return db.queryUser(ctx, query, email)
}

func (db *DB) queryUser(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var (
		user                 models.User
		contact, picture     sql.NullString
		createdAt, updatedAt string
	)
	err := db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name, &contact, &picture,
		&user.Role, &user.IsVerified, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.ContactNumber = stringPtr(contact)
	user.ProfilePicture = stringPtr(picture)
	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if user.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUserProfile overwrites the non-nil fields and returns the updated user.
func (db *DB) UpdateUserProfile(ctx context.Context, id string, name, contactNumber *string) (*models.User, error) {
	query := `UPDATE users SET
	            name = COALESCE(?, name),
	            contact_number = COALESCE(?, contact_number),
	            updated_at = ?
	          WHERE id = ?`
	result, err := db.ExecContext(ctx, query, nullString(name), nullString(contactNumber), formatTime(now()), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, ErrNotFound
	}
	return db.GetUserByID(ctx, id)
}
