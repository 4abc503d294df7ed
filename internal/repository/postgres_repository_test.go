package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightnest/leads-api/internal/models"
	"github.com/brightnest/leads-api/internal/pricing"
)

const testQuoteID = "7f1c2a40-6a8e-4c3b-9d7a-2f5e8b1c9a01"

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func sampleQuote() *models.QuoteRecord {
	engine := pricing.NewEngine(pricing.DefaultTable())
	input := pricing.QuoteInput{Service: pricing.ServiceEndOfTenancy, Bedrooms: "2", Addons: pricing.Addons{Oven: true}}
	return &models.QuoteRecord{
		ID:        testQuoteID,
		CreatedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		Postcode:  "M14 5AB",
		Source:    "website",
		Contact:   &models.Contact{Name: "Sam", Email: "sam@example.com"},
		Input:     input,
		Result:    engine.Compute(input),
	}
}

func TestPostgresQuoteRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresQuoteRepository(db)
	quote := sampleQuote()

	mock.ExpectExec(`INSERT INTO quotes`).
		WithArgs(
			testQuoteID,
			quote.CreatedAt,
			"endOfTenancy",
			"M14 5AB",
			"website",
			sqlmock.AnyArg(), // contact JSON
			sqlmock.AnyArg(), // input JSON
			sqlmock.AnyArg(), // result JSON
			nil,
			195.0,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), quote))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresQuoteRepository_CreateError(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresQuoteRepository(db)

	mock.ExpectExec(`INSERT INTO quotes`).WillReturnError(assert.AnError)

	err := repo.Create(context.Background(), sampleQuote())
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func quoteRows(t *testing.T, quotes ...*models.QuoteRecord) *sqlmock.Rows {
	t.Helper()
	rows := sqlmock.NewRows([]string{"id", "created_at", "postcode", "source", "contact", "input", "result", "service_area"})
	for _, q := range quotes {
		contact, err := json.Marshal(q.Contact)
		require.NoError(t, err)
		input, err := json.Marshal(q.Input)
		require.NoError(t, err)
		result, err := json.Marshal(q.Result)
		require.NoError(t, err)
		rows.AddRow(q.ID, q.CreatedAt, q.Postcode, q.Source, contact, input, result, []byte(`{"district":"M14","served":true,"outerArea":false}`))
	}
	return rows
}

func TestPostgresQuoteRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresQuoteRepository(db)
	want := sampleQuote()

	mock.ExpectQuery(`SELECT id, created_at, postcode, source, contact, input, result, service_area FROM quotes WHERE id = \$1`).
		WithArgs(testQuoteID).
		WillReturnRows(quoteRows(t, want))

	got, err := repo.GetByID(context.Background(), testQuoteID)
	require.NoError(t, err)

	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, "M14 5AB", got.Postcode)
	assert.Equal(t, want.Contact, got.Contact)
	assert.Equal(t, want.Input, got.Input)
	assert.Equal(t, want.Result.Total, got.Result.Total)
	assert.Equal(t, want.Result.LineItems, got.Result.LineItems)
	require.NotNil(t, got.ServiceArea)
	assert.Equal(t, "M14", got.ServiceArea.District)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresQuoteRepository_GetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresQuoteRepository(db)

	mock.ExpectQuery(`FROM quotes WHERE id`).
		WithArgs(testQuoteID).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), testQuoteID)
	assert.ErrorIs(t, err, ErrQuoteNotFound)

	_, err = repo.GetByID(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrQuoteNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresQuoteRepository_ListRecent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresQuoteRepository(db)

	first := sampleQuote()
	second := sampleQuote()
	second.ID = "0b6f3c3e-1111-4f55-8a4c-7d0e6c2b8f22"

	mock.ExpectQuery(`ORDER BY created_at DESC LIMIT \$1`).
		WithArgs(5).
		WillReturnRows(quoteRows(t, first, second))

	quotes, err := repo.ListRecent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, second.ID, quotes[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresBookingRepository(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgresBookingRepository(db)
	created := time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC)

	booking := &models.Booking{
		ID:        testQuoteID,
		CreatedAt: created,
		BookingRequest: models.BookingRequest{
			Name:    "Sam",
			Email:   "sam@example.com",
			Phone:   "07700900000",
			Service: "deep",
			QuoteID: "q-1",
		},
	}

	mock.ExpectExec(`INSERT INTO bookings`).
		WithArgs(testQuoteID, created, "Sam", "sam@example.com", "07700900000", "deep",
			sql.NullString{}, sql.NullString{}, sql.NullString{}, sql.NullString{}, "q-1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), booking))

	mock.ExpectQuery(`FROM bookings WHERE id = \$1`).
		WithArgs(testQuoteID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "name", "email", "phone", "service", "postcode", "preferred_date", "preferred_time", "notes", "quote_id"}).
			AddRow(testQuoteID, created, "Sam", "sam@example.com", "07700900000", "deep", nil, "2025-03-10", nil, nil, "q-1"))

	got, err := repo.GetByID(context.Background(), testQuoteID)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", got.PreferredDate)
	assert.Equal(t, "q-1", got.QuoteID)
	assert.Empty(t, got.Postcode)

	_, err = repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
