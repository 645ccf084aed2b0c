package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"caravanshare/internal/models"

	"github.com/google/uuid"
)

const caravanColumns = `c.id, c.host_id, c.name, c.description, c.location, c.price_per_day,
	                 c.capacity, c.images, c.created_at, c.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// caravanRow holds the raw columns of a caravan so it can be scanned as part of a join.
type caravanRow struct {
	c                    models.Caravan
	images               string
	createdAt, updatedAt string
}

func (cr *caravanRow) dest() []any {
	return []any{
		&cr.c.ID, &cr.c.HostID, &cr.c.Name, &cr.c.Description, &cr.c.Location, &cr.c.PricePerDay,
		&cr.c.Capacity, &cr.images, &cr.createdAt, &cr.updatedAt,
	}
}

func (cr *caravanRow) build() (*models.Caravan, error) {
	c := cr.c
	if err := json.Unmarshal([]byte(cr.images), &c.Images); err != nil {
		return nil, fmt.Errorf("failed to decode caravan images: %w", err)
	}
	var err error
	if c.CreatedAt, err = parseTime(cr.createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(cr.updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCaravan(row rowScanner, extra ...any) (*models.Caravan, error) {
	var cr caravanRow
	if err := row.Scan(append(cr.dest(), extra...)...); err != nil {
		return nil, err
	}
	return cr.build()
}

func encodeImages(images []string) (string, error) {
	if images == nil {
		images = []string{}
	}
	raw, err := json.Marshal(images)
	if err != nil {
		return "", fmt.Errorf("failed to encode caravan images: %w", err)
	}
	return string(raw), nil
}

func (db *DB) CreateCaravan(ctx context.Context, caravan *models.Caravan) error {
	query := `INSERT INTO caravans (
				id, host_id, name, description, location, price_per_day,
				capacity, images, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	images, err := encodeImages(caravan.Images)
	if err != nil {
		return err
	}
	if caravan.ID == "" {
		caravan.ID = uuid.NewString()
	}
	ts := now()
	_, err = db.ExecContext(ctx, query,
		caravan.ID,
		caravan.HostID,
		caravan.Name,
		caravan.Description,
		caravan.Location,
		caravan.PricePerDay,
		caravan.Capacity,
		images,
		formatTime(ts),
		formatTime(ts),
	)
	if err != nil {
		return fmt.Errorf("failed to create caravan: %w", err)
	}
	if caravan.Images == nil {
		caravan.Images = []string{}
	}
	caravan.CreatedAt = ts
	caravan.UpdatedAt = ts
	return nil
}

func (db *DB) GetCaravan(ctx context.Context, id string) (*models.Caravan, error) {
	query := `SELECT ` + caravanColumns + ` FROM caravans c WHERE c.id = ?`
	caravan, err := scanCaravan(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get caravan: %w", err)
	}
	return caravan, nil
}

// GetCaravanDetail joins the host summary and computes the rating aggregate
// with a separate query.
func (db *DB) GetCaravanDetail(ctx context.Context, id string) (*models.CaravanDetail, error) {
	query := `SELECT ` + caravanColumns + `, u.id, u.name, u.profile_picture
              FROM caravans c JOIN users u ON u.id = c.host_id
              WHERE c.id = ?`
	var (
		detail  models.CaravanDetail
		picture sql.NullString
	)
	caravan, err := scanCaravan(db.QueryRowContext(ctx, query, id), &detail.Host.ID, &detail.Host.Name, &picture)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get caravan detail: %w", err)
	}
	detail.Caravan = *caravan
	detail.Host.ProfilePicture = stringPtr(picture)

	aggQuery := `SELECT COALESCE(AVG(rating), 0), COUNT(*) FROM reviews WHERE caravan_id = ?`
	if err := db.QueryRowContext(ctx, aggQuery, id).Scan(&detail.ReviewsAvg, &detail.ReviewsCount); err != nil {
		return nil, fmt.Errorf("failed to aggregate reviews: %w", err)
	}
	return &detail, nil
}

func (db *DB) ListCaravans(ctx context.Context) ([]*models.Caravan, error) {
	query := `SELECT ` + caravanColumns + ` FROM caravans c ORDER BY c.created_at DESC, c.rowid DESC`
	return db.queryCaravans(ctx, query)
}

func (db *DB) ListCaravansByHost(ctx context.Context, hostID string) ([]*models.Caravan, error) {
	query := `SELECT ` + caravanColumns + ` FROM caravans c WHERE c.host_id = ? ORDER BY c.created_at DESC, c.rowid DESC`
	return db.queryCaravans(ctx, query, hostID)
}

func (db *DB) queryCaravans(ctx context.Context, query string, args ...interface{}) ([]*models.Caravan, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list caravans: %w", err)
	}
	defer rows.Close()

	caravans := []*models.Caravan{}
	for rows.Next() {
		c, err := scanCaravan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan caravan: %w", err)
		}
		caravans = append(caravans, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate caravans: %w", err)
	}
	return caravans, nil
}

// UpdateCaravan overwrites all mutable attributes. Last write wins.
func (db *DB) UpdateCaravan(ctx context.Context, caravan *models.Caravan) error {
	query := `UPDATE caravans SET
	            name = ?, description = ?, location = ?, price_per_day = ?,
	            capacity = ?, images = ?, updated_at = ?
	          WHERE id = ?`
	images, err := encodeImages(caravan.Images)
	if err != nil {
		return err
	}
	ts := now()
	result, err := db.ExecContext(ctx, query,
		caravan.Name,
		caravan.Description,
		caravan.Location,
		caravan.PricePerDay,
		caravan.Capacity,
		images,
		formatTime(ts),
		caravan.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update caravan: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	caravan.UpdatedAt = ts
	return nil
}

// DeleteCaravan refuses while any reservation references the caravan,
// otherwise removes its reviews and then the caravan in one transaction.
func (db *DB) DeleteCaravan(ctx context.Context, id string) error {
	return db.WithTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM caravans WHERE id = ?`, id).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check caravan: %w", err)
		}
		if exists == 0 {
			return ErrNotFound
		}

		var reservations int
		err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations WHERE caravan_id = ?`, id).Scan(&reservations)
		if err != nil {
			return fmt.Errorf("failed to check reservations: %w", err)
		}
		if reservations > 0 {
			return ErrHasReservations
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE caravan_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete reviews: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM caravans WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete caravan: %w", err)
		}
		return nil
	})
}
