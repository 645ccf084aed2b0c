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

const reservationSelect = `SELECT r.id, r.guest_id, r.caravan_id, r.start_date, r.end_date,
	                 r.total_price, r.status, r.created_at, r.updated_at,
	                 ` + caravanColumns + `,
	                 p.id, p.user_id, p.amount, p.method, p.status, p.payment_date,
	                 u.name, u.email, u.profile_picture
              FROM reservations r
              JOIN caravans c ON c.id = r.caravan_id
              JOIN users u ON u.id = r.guest_id
              LEFT JOIN payments p ON p.id = (
                  SELECT p2.id FROM payments p2
                  WHERE p2.reservation_id = r.id
                  ORDER BY p2.payment_date DESC, p2.rowid DESC LIMIT 1
              )`

// overlapPredicate matches non-cancelled reservations intersecting [start, end).
const overlapPredicate = `caravan_id = ? AND status != ? AND start_date < ? AND end_date > ?`

type reservationRow struct {
	r                    models.Reservation
	startDate, endDate   string
	createdAt, updatedAt string
}

func (rr *reservationRow) dest() []any {
	return []any{
		&rr.r.ID, &rr.r.GuestID, &rr.r.CaravanID, &rr.startDate, &rr.endDate,
		&rr.r.TotalPrice, &rr.r.Status, &rr.createdAt, &rr.updatedAt,
	}
}

func (rr *reservationRow) build() (*models.Reservation, error) {
	r := rr.r
	var err error
	if r.StartDate, err = parseTime(rr.startDate); err != nil {
		return nil, err
	}
	if r.EndDate, err = parseTime(rr.endDate); err != nil {
		return nil, err
	}
	if r.CreatedAt, err = parseTime(rr.createdAt); err != nil {
		return nil, err
	}
	if r.UpdatedAt, err = parseTime(rr.updatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

func scanReservation(row rowScanner, withGuest bool) (*models.Reservation, error) {
	var (
		rr                              reservationRow
		cr                              caravanRow
		payID, payUser, payMethod       sql.NullString
		payStatus, payDate              sql.NullString
		payAmount                       sql.NullInt64
		guestName, guestEmail, guestPic sql.NullString
	)
	dest := append(rr.dest(), cr.dest()...)
	dest = append(dest, &payID, &payUser, &payAmount, &payMethod, &payStatus, &payDate,
		&guestName, &guestEmail, &guestPic)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	r, err := rr.build()
	if err != nil {
		return nil, err
	}
	if r.Caravan, err = cr.build(); err != nil {
		return nil, err
	}
	if payID.Valid {
		paidAt, err := parseTime(payDate.String)
		if err != nil {
			return nil, err
		}
		r.Payment = &models.Payment{
			ID:            payID.String,
			ReservationID: r.ID,
			UserID:        payUser.String,
			Amount:        payAmount.Int64,
			Method:        payMethod.String,
			Status:        payStatus.String,
			PaymentDate:   paidAt,
		}
	}
	if withGuest {
		r.Guest = &models.UserSummary{
			ID:             r.GuestID,
			Name:           guestName.String,
			Email:          guestEmail.String,
			ProfilePicture: stringPtr(guestPic),
		}
	}
	return r, nil
}

// CreateReservationWithPayment inserts the reservation and its payment atomically.
// Inside the transaction it re-checks that no non-cancelled reservation of the same
// caravan overlaps [StartDate, EndDate); immediate transactions on a single
// connection make the check and the insert one critical section.
func (db *DB) CreateReservationWithPayment(ctx context.Context, reservation *models.Reservation, payment *models.Payment) error {
	if reservation.ID == "" {
		reservation.ID = uuid.NewString()
	}
	if payment != nil && payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	ts := now()

	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		var overlapping int
		queryOverlap := `SELECT COUNT(*) FROM reservations WHERE ` + overlapPredicate
		err := tx.QueryRowContext(ctx, queryOverlap,
			reservation.CaravanID, models.StatusCancelled,
			formatTime(reservation.EndDate), formatTime(reservation.StartDate),
		).Scan(&overlapping)
		if err != nil {
			return fmt.Errorf("failed to check overlap in tx: %w", err)
		}
		if overlapping > 0 {
			return ErrOverlap
		}

		queryInsert := `INSERT INTO reservations (
					id, guest_id, caravan_id, start_date, end_date,
					total_price, status, created_at, updated_at
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err = tx.ExecContext(ctx, queryInsert,
			reservation.ID,
			reservation.GuestID,
			reservation.CaravanID,
			formatTime(reservation.StartDate),
			formatTime(reservation.EndDate),
			reservation.TotalPrice,
			reservation.Status,
			formatTime(ts),
			formatTime(ts),
		)
		if err != nil {
			return fmt.Errorf("failed to insert reservation in tx: %w", err)
		}

		if payment == nil {
			return nil
		}
		payment.ReservationID = reservation.ID
		return insertPayment(ctx, tx, payment, ts)
	})
	if err != nil {
		return err
	}

	reservation.CreatedAt = ts
	reservation.UpdatedAt = ts
	return nil
}

func (db *DB) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	query := reservationSelect + ` WHERE r.id = ?`
	r, err := scanReservation(db.QueryRowContext(ctx, query, id), false)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reservation: %w", err)
	}
	return r, nil
}

func (db *DB) ListReservationsByGuest(ctx context.Context, guestID string) ([]*models.Reservation, error) {
	query := reservationSelect + ` WHERE r.guest_id = ? ORDER BY r.created_at DESC, r.rowid DESC`
	return db.queryReservations(ctx, query, false, guestID)
}

// ListReservationsByHost returns reservations of all caravans owned by hostID.
func (db *DB) ListReservationsByHost(ctx context.Context, hostID string) ([]*models.Reservation, error) {
	query := reservationSelect + ` WHERE c.host_id = ? ORDER BY r.created_at DESC, r.rowid DESC`
	return db.queryReservations(ctx, query, true, hostID)
}

func (db *DB) queryReservations(ctx context.Context, query string, withGuest bool, args ...interface{}) ([]*models.Reservation, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	reservations := []*models.Reservation{}
	for rows.Next() {
		r, err := scanReservation(rows, withGuest)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reservations: %w", err)
	}
	return reservations, nil
}

// UpdateReservationStatus moves a reservation from fromStatus to toStatus.
// Cancelling also cancels a payment that is still pending.
func (db *DB) UpdateReservationStatus(ctx context.Context, id, fromStatus, toStatus string) error {
	return db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `UPDATE reservations SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
		result, err := tx.ExecContext(ctx, query, toStatus, formatTime(now()), id, fromStatus)
		if err != nil {
			return fmt.Errorf("failed to update reservation status: %w", err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			var exists int
			if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations WHERE id = ?`, id).Scan(&exists); err != nil {
				return fmt.Errorf("failed to check reservation: %w", err)
			}
			if exists == 0 {
				return ErrNotFound
			}
			return ErrConcurrentModification
		}

		if toStatus == models.StatusCancelled {
			_, err := tx.ExecContext(ctx,
				`UPDATE payments SET status = ? WHERE reservation_id = ? AND status = ?`,
				models.PaymentCancelled, id, models.PaymentPending)
			if err != nil {
				return fmt.Errorf("failed to cancel pending payment: %w", err)
			}
		}
		return nil
	})
}

// ListBookedRanges returns non-cancelled reservations of a caravan intersecting [from, to).
func (db *DB) ListBookedRanges(ctx context.Context, caravanID string, from, to time.Time) ([]models.BookedRange, error) {
	query := `SELECT id, start_date, end_date, status FROM reservations
              WHERE ` + overlapPredicate + ` ORDER BY start_date ASC`
	rows, err := db.QueryContext(ctx, query, caravanID, models.StatusCancelled, formatTime(to), formatTime(from))
	if err != nil {
		return nil, fmt.Errorf("failed to list booked ranges: %w", err)
	}
	defer rows.Close()

	ranges := []models.BookedRange{}
	for rows.Next() {
		var (
			br         models.BookedRange
			start, end string
		)
		if err := rows.Scan(&br.ReservationID, &start, &end, &br.Status); err != nil {
			return nil, fmt.Errorf("failed to scan booked range: %w", err)
		}
		if br.StartDate, err = parseTime(start); err != nil {
			return nil, err
		}
		if br.EndDate, err = parseTime(end); err != nil {
			return nil, err
		}
		ranges = append(ranges, br)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate booked ranges: %w", err)
	}
	return ranges, nil
}

func (db *DB) HasOverlap(ctx context.Context, caravanID string, start, end time.Time) (bool, error) {
	query := `SELECT COUNT(*) FROM reservations WHERE ` + overlapPredicate
	var count int
	err := db.QueryRowContext(ctx, query, caravanID, models.StatusCancelled, formatTime(end), formatTime(start)).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check overlap: %w", err)
	}
	return count > 0, nil
}

func (db *DB) HasConfirmedReservation(ctx context.Context, guestID, caravanID string) (bool, error) {
	query := `SELECT COUNT(*) FROM reservations WHERE guest_id = ? AND caravan_id = ? AND status = ?`
	var count int
	err := db.QueryRowContext(ctx, query, guestID, caravanID, models.StatusConfirmed).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check confirmed reservation: %w", err)
	}
	return count > 0, nil
}
