package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bookyard/internal/models"
)

const bookColumns = `id, title, description, category_id, seller_email,
                     price_cents, status, advertised, reported, created_at, updated_at`

func (db *DB) CreateBook(ctx context.Context, book *models.Book) error {
	query := `INSERT INTO books (
				title, description, category_id, seller_email, price_cents,
				status, advertised, reported, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now()
	if book.Status == "" {
		book.Status = models.BookStatusListed
	}
	result, err := db.ExecContext(ctx, query,
		book.Title,
		book.Description,
		book.CategoryID,
		book.SellerEmail,
		book.PriceCents,
		book.Status,
		book.Advertised,
		book.Reported,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	book.ID = id
	book.CreatedAt = now
	book.UpdatedAt = now
	return nil
}

func (db *DB) GetBook(ctx context.Context, id int64) (*models.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = ?`
	var book models.Book
	err := db.QueryRowContext(ctx, query, id).Scan(
		&book.ID, &book.Title, &book.Description, &book.CategoryID, &book.SellerEmail,
		&book.PriceCents, &book.Status, &book.Advertised, &book.Reported,
		&book.CreatedAt, &book.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return &book, nil
}

func (db *DB) GetBooksByCategory(ctx context.Context, categoryID string) ([]*models.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE category_id = ? ORDER BY created_at DESC`
	return db.queryBooks(ctx, query, categoryID)
}

func (db *DB) GetBooksBySeller(ctx context.Context, sellerEmail string) ([]*models.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE seller_email = ? ORDER BY created_at DESC`
	return db.queryBooks(ctx, query, sellerEmail)
}

// GetAdvertisedBooks returns advertised listings that have not been sold.
func (db *DB) GetAdvertisedBooks(ctx context.Context) ([]*models.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books
              WHERE advertised = 1 AND status != ? ORDER BY created_at DESC`
	return db.queryBooks(ctx, query, models.BookStatusPaid)
}

func (db *DB) GetReportedBooks(ctx context.Context) ([]*models.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE reported = 1 ORDER BY created_at DESC`
	return db.queryBooks(ctx, query)
}

func (db *DB) queryBooks(ctx context.Context, query string, args ...interface{}) ([]*models.Book, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	var books []*models.Book
	for rows.Next() {
		b := &models.Book{}
		err := rows.Scan(
			&b.ID, &b.Title, &b.Description, &b.CategoryID, &b.SellerEmail,
			&b.PriceCents, &b.Status, &b.Advertised, &b.Reported,
			&b.CreatedAt, &b.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

// DeleteBookOwned removes a listing only when it belongs to sellerEmail.
func (db *DB) DeleteBookOwned(ctx context.Context, id int64, sellerEmail string) error {
	query := `DELETE FROM books WHERE id = ? AND seller_email = ?`
	result, err := db.ExecContext(ctx, query, id, sellerEmail)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteReportedBook removes a listing only when it has been reported.
func (db *DB) DeleteReportedBook(ctx context.Context, id int64) error {
	query := `DELETE FROM books WHERE id = ? AND reported = 1`
	result, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete reported book: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (db *DB) SetBookReported(ctx context.Context, id int64) error {
	query := `UPDATE books SET reported = 1, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to report book: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// SetBookAdvertised marks a listing advertised, only for its own seller.
func (db *DB) SetBookAdvertised(ctx context.Context, id int64, sellerEmail string) error {
	query := `UPDATE books SET advertised = 1, updated_at = ? WHERE id = ? AND seller_email = ?`
	result, err := db.ExecContext(ctx, query, time.Now(), id, sellerEmail)
	if err != nil {
		return fmt.Errorf("failed to advertise book: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
