package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"caravanshare/internal/models"

	"github.com/google/uuid"
)

func insertPayment(ctx context.Context, tx *sql.Tx, payment *models.Payment, ts time.Time) error {
	query := `INSERT INTO payments (id, reservation_id, user_id, amount, method, status, payment_date)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, query,
		payment.ID,
		payment.ReservationID,
		payment.UserID,
		payment.Amount,
		payment.Method,
		payment.Status,
		formatTime(ts),
	)
	if err != nil {
		return fmt.Errorf("failed to insert payment in tx: %w", err)
	}
	payment.PaymentDate = ts
	return nil
}

// CreatePayment records a payment. When confirmReservation is set and the reservation
// is still pending, it is confirmed in the same transaction.
func (db *DB) CreatePayment(ctx context.Context, payment *models.Payment, confirmReservation bool) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	ts := now()

	return db.WithTx(ctx, func(tx *sql.Tx) error {
		var status string
		err := tx.QueryRowContext(ctx, `SELECT status FROM reservations WHERE id = ?`, payment.ReservationID).Scan(&status)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get reservation status: %w", err)
		}
		if status == models.StatusCancelled {
			return ErrReservationCancelled
		}

		if err := insertPayment(ctx, tx, payment, ts); err != nil {
			return err
		}

		if confirmReservation && status == models.StatusPending {
			_, err := tx.ExecContext(ctx,
				`UPDATE reservations SET status = ?, updated_at = ? WHERE id = ?`,
				models.StatusConfirmed, formatTime(ts), payment.ReservationID)
			if err != nil {
				return fmt.Errorf("failed to confirm reservation: %w", err)
			}
		}
		return nil
	})
}

// ListPaymentsByUser returns payments for reservations made by userID, newest first.
func (db *DB) ListPaymentsByUser(ctx context.Context, userID string) ([]*models.Payment, error) {
	query := `SELECT p.id, p.reservation_id, p.user_id, p.amount, p.method, p.status, p.payment_date,
	                 r.id, r.guest_id, r.caravan_id, r.start_date, r.end_date,
	                 r.total_price, r.status, r.created_at, r.updated_at,
	                 ` + caravanColumns + `
              FROM payments p
              JOIN reservations r ON r.id = p.reservation_id
              JOIN caravans c ON c.id = r.caravan_id
              WHERE r.guest_id = ?
              ORDER BY p.payment_date DESC, p.rowid DESC`
	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	payments := []*models.Payment{}
	for rows.Next() {
		var (
			p      models.Payment
			paidAt string
			rr     reservationRow
			cr     caravanRow
		)
		dest := []any{&p.ID, &p.ReservationID, &p.UserID, &p.Amount, &p.Method, &p.Status, &paidAt}
		dest = append(dest, rr.dest()...)
		dest = append(dest, cr.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		if p.PaymentDate, err = parseTime(paidAt); err != nil {
			return nil, err
		}
		if p.Reservation, err = rr.build(); err != nil {
			return nil, err
		}
		if p.Reservation.Caravan, err = cr.build(); err != nil {
			return nil, err
		}
		payments = append(payments, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payments: %w", err)
	}
	return payments, nil
}
