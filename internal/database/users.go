package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bookyard/internal/models"
)

func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	query := `INSERT INTO users (email, name, role, seller_verified, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query,
		user.Email,
		user.Name,
		user.Role,
		user.SellerVerified,
		now,
		now,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	user.ID = id
	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, email, name, role, seller_verified, created_at, updated_at
              FROM users WHERE email = ?`
	return db.queryUser(ctx, query, email)
}

func (db *DB) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT id, email, name, role, seller_verified, created_at, updated_at
              FROM users WHERE id = ?`
	return db.queryUser(ctx, query, id)
}

func (db *DB) queryUser(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	err := db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.Email, &user.Name, &user.Role,
		&user.SellerVerified, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

func (db *DB) GetUsersByRole(ctx context.Context, role string) ([]*models.User, error) {
	query := `SELECT id, email, name, role, seller_verified, created_at, updated_at
              FROM users WHERE role = ? ORDER BY created_at DESC`
	rows, err := db.QueryContext(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("failed to get users by role: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		u := &models.User{}
		err := rows.Scan(
			&u.ID, &u.Email, &u.Name, &u.Role,
			&u.SellerVerified, &u.CreatedAt, &u.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// DeleteUser removes a user by id but only when its role matches, so the
// seller and buyer removal endpoints cannot delete each other's records.
func (db *DB) DeleteUser(ctx context.Context, id int64, role string) error {
	query := `DELETE FROM users WHERE id = ? AND role = ?`
	result, err := db.ExecContext(ctx, query, id, role)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// SetSellerVerified marks a seller as verified. Fails with ErrNotFound when
// the id does not belong to a seller; no record is fabricated.
func (db *DB) SetSellerVerified(ctx context.Context, id int64) error {
	query := `UPDATE users SET seller_verified = 1, updated_at = ? WHERE id = ? AND role = ?`
	result, err := db.ExecContext(ctx, query, time.Now(), id, models.RoleSeller)
	if err != nil {
		return fmt.Errorf("failed to set seller verified: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
