package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/brightnest/leads-api/internal/models"
)

const insertBookingSQL = `INSERT INTO bookings (id, created_at, name, email, phone, service, postcode, preferred_date, preferred_time, notes, quote_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

const selectBookingSQL = `SELECT id, created_at, name, email, phone, service, postcode, preferred_date, preferred_time, notes, quote_id
FROM bookings WHERE id = $1`

// PostgresBookingRepository implements BookingRepository on a lib/pq connection
type PostgresBookingRepository struct {
	db *sql.DB
}

func NewPostgresBookingRepository(db *sql.DB) *PostgresBookingRepository {
	return &PostgresBookingRepository{db: db}
}

func (r *PostgresBookingRepository) Create(ctx context.Context, b *models.Booking) error {
	_, err := r.db.ExecContext(ctx, insertBookingSQL,
		b.ID,
		b.CreatedAt,
		b.Name,
		b.Email,
		b.Phone,
		b.Service,
		nullString(b.Postcode),
		nullString(b.PreferredDate),
		nullString(b.PreferredTime),
		nullString(b.Notes),
		nullString(b.QuoteID),
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (r *PostgresBookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrBookingNotFound
	}

	var (
		b                                  models.Booking
		postcode, date, slot, notes, quote sql.NullString
	)
	err := r.db.QueryRowContext(ctx, selectBookingSQL, id).Scan(
		&b.ID, &b.CreatedAt, &b.Name, &b.Email, &b.Phone, &b.Service,
		&postcode, &date, &slot, &notes, &quote,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}

	b.Postcode = postcode.String
	b.PreferredDate = date.String
	b.PreferredTime = slot.String
	b.Notes = notes.String
	b.QuoteID = quote.String

	return &b, nil
}
