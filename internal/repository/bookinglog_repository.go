package repository

import (
	"context"
	"database/sql"
	"time"
)

// BookingLogRecord mirrors the booking_logs table: one denormalized
// row per completed booking, written by the queue consumer and read
// only by the reporting endpoint. It plays no part in booking
// correctness.
type BookingLogRecord struct {
	ID                 uint64    `json:"id"`
	Reference          string    `json:"reference"`
	LocationID         string    `json:"location_id"`
	Source             string    `json:"source"`
	BookingID          int64     `json:"booking_id"`
	ConfirmationNumber string    `json:"confirmation_number"`
	GuestName          string    `json:"guest_name"`
	GuestEmail         string    `json:"guest_email"`
	Arrival            string    `json:"arrival"`
	Departure          string    `json:"departure"`
	Adults             int       `json:"adults"`
	Children           int       `json:"children"`
	CategoryID         int64     `json:"category_id"`
	AreaID             int64     `json:"area_id"`
	Amount             float64   `json:"amount"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
}

// BookingLogRepo persists booking-log rows.
type BookingLogRepo struct {
	db *sql.DB
}

// NewBookingLogRepo returns a BookingLogRepo bound to the given database.
func NewBookingLogRepo(db *sql.DB) *BookingLogRepo { return &BookingLogRepo{db: db} }

// Insert writes one row and populates the generated id.
func (r *BookingLogRepo) Insert(ctx context.Context, rec *BookingLogRecord) error {
	const q = `INSERT INTO booking_logs
	             (reference, location_id, source, booking_id, confirmation_number,
	              guest_name, guest_email, arrival, departure, adults, children,
	              category_id, area_id, amount, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		rec.Reference, rec.LocationID, rec.Source, rec.BookingID, rec.ConfirmationNumber,
		rec.GuestName, rec.GuestEmail, rec.Arrival, rec.Departure, rec.Adults, rec.Children,
		rec.CategoryID, rec.AreaID, rec.Amount, rec.Status,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	return nil
}

// ListRecent returns the newest rows first, bounded by limit.
func (r *BookingLogRepo) ListRecent(ctx context.Context, limit int) ([]BookingLogRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	const q = `SELECT id, reference, location_id, source, booking_id, confirmation_number,
	                  guest_name, guest_email, arrival, departure, adults, children,
	                  category_id, area_id, amount, status, created_at
	           FROM booking_logs ORDER BY id DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BookingLogRecord
	for rows.Next() {
		var rec BookingLogRecord
		if err := rows.Scan(
			&rec.ID, &rec.Reference, &rec.LocationID, &rec.Source, &rec.BookingID, &rec.ConfirmationNumber,
			&rec.GuestName, &rec.GuestEmail, &rec.Arrival, &rec.Departure, &rec.Adults, &rec.Children,
			&rec.CategoryID, &rec.AreaID, &rec.Amount, &rec.Status, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
