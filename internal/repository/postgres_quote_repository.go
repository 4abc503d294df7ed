package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/brightnest/leads-api/internal/models"
)

const (
	insertQuoteSQL = `INSERT INTO quotes (id, created_at, service, postcode, source, contact, input, result, service_area, total)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	selectQuoteColumns = `SELECT id, created_at, postcode, source, contact, input, result, service_area FROM quotes`
)

// PostgresQuoteRepository implements QuoteRepository on a lib/pq connection
type PostgresQuoteRepository struct {
	db *sql.DB
}

func NewPostgresQuoteRepository(db *sql.DB) *PostgresQuoteRepository {
	return &PostgresQuoteRepository{db: db}
}

func (r *PostgresQuoteRepository) Create(ctx context.Context, quote *models.QuoteRecord) error {
	contact, err := marshalNullable(quote.Contact)
	if err != nil {
		return fmt.Errorf("failed to encode contact: %w", err)
	}
	input, err := json.Marshal(quote.Input)
	if err != nil {
		return fmt.Errorf("failed to encode input: %w", err)
	}
	result, err := json.Marshal(quote.Result)
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	area, err := marshalNullable(quote.ServiceArea)
	if err != nil {
		return fmt.Errorf("failed to encode service area: %w", err)
	}

	_, err = r.db.ExecContext(ctx, insertQuoteSQL,
		quote.ID,
		quote.CreatedAt,
		string(quote.Input.Service),
		nullString(quote.Postcode),
		nullString(quote.Source),
		contact,
		string(input),
		string(result),
		area,
		quote.Result.Total,
	)
	if err != nil {
		return fmt.Errorf("failed to insert quote: %w", err)
	}
	return nil
}

func (r *PostgresQuoteRepository) GetByID(ctx context.Context, id string) (*models.QuoteRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrQuoteNotFound
	}

	row := r.db.QueryRowContext(ctx, selectQuoteColumns+` WHERE id = $1`, id)
	quote, err := scanQuote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrQuoteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load quote: %w", err)
	}
	return quote, nil
}

func (r *PostgresQuoteRepository) ListRecent(ctx context.Context, limit int) ([]models.QuoteRecord, error) {
	rows, err := r.db.QueryContext(ctx, selectQuoteColumns+` ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	defer rows.Close()

	quotes := make([]models.QuoteRecord, 0, limit)
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan quote: %w", err)
		}
		quotes = append(quotes, *quote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quotes: %w", err)
	}
	return quotes, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuote(row rowScanner) (*models.QuoteRecord, error) {
	var (
		quote                  models.QuoteRecord
		postcode, source       sql.NullString
		contact, input, result []byte
		area                   []byte
	)

	if err := row.Scan(&quote.ID, &quote.CreatedAt, &postcode, &source, &contact, &input, &result, &area); err != nil {
		return nil, err
	}

	quote.Postcode = postcode.String
	quote.Source = source.String

	if len(contact) > 0 {
		quote.Contact = &models.Contact{}
		if err := json.Unmarshal(contact, quote.Contact); err != nil {
			return nil, fmt.Errorf("failed to decode contact: %w", err)
		}
	}
	if err := json.Unmarshal(input, &quote.Input); err != nil {
		return nil, fmt.Errorf("failed to decode input: %w", err)
	}
	if err := json.Unmarshal(result, &quote.Result); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	if len(area) > 0 {
		quote.ServiceArea = &models.ServiceArea{}
		if err := json.Unmarshal(area, quote.ServiceArea); err != nil {
			return nil, fmt.Errorf("failed to decode service area: %w", err)
		}
	}

	return &quote, nil
}

// marshalNullable encodes v for a nullable JSONB column
func marshalNullable[T any](v *T) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
