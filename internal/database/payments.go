package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bookyard/internal/models"
)

// SettlePayment performs the three settlement writes in one transaction:
// insert the payment record, mark the booking paid with its transaction id,
// and mark the book sold. If the booking or the book id matches no row the
// whole transaction rolls back with ErrNotFound.
func (db *DB) SettlePayment(ctx context.Context, payment *models.Payment) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now()

	result, err := tx.ExecContext(ctx,
		`UPDATE bookings SET paid = 1, transaction_id = ?, updated_at = ? WHERE id = ?`,
		payment.TransactionID, now, payment.BookingID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark booking paid: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}

	result, err = tx.ExecContext(ctx,
		`UPDATE books SET status = ?, updated_at = ? WHERE id = ?`,
		models.BookStatusPaid, now, payment.ItemID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark book paid: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrNotFound
	}

	insert, err := tx.ExecContext(ctx,
		`INSERT INTO payments (booking_id, item_id, transaction_id, amount_cents, buyer_email, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		payment.BookingID, payment.ItemID, payment.TransactionID,
		payment.AmountCents, payment.BuyerEmail, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}

	id, err := insert.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settlement: %w", err)
	}

	payment.ID = id
	payment.CreatedAt = now
	return nil
}

func (db *DB) GetPaymentByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	query := `SELECT id, booking_id, item_id, transaction_id, amount_cents, buyer_email, created_at
              FROM payments WHERE transaction_id = ?`
	var p models.Payment
	err := db.QueryRowContext(ctx, query, transactionID).Scan(
		&p.ID, &p.BookingID, &p.ItemID, &p.TransactionID,
		&p.AmountCents, &p.BuyerEmail, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return &p, nil
}

func (db *DB) CountPayments(ctx context.Context) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM payments`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count payments: %w", err)
	}
	return count, nil
}
