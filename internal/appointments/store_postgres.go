package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type pgQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore stores appointments in the smart_appointments table.
type PostgresStore struct {
	db pgQuerier
}

// NewPostgresStore takes a *pgxpool.Pool or anything with the same query methods.
func NewPostgresStore(db pgQuerier) *PostgresStore {
	if db == nil {
		panic("appointments: pgx pool required")
	}
	return &PostgresStore{db: db}
}

var _ Store = (*PostgresStore)(nil)

const selectColumns = `
	id, name, email, phone, whatsapp, city, profession, pain_point, pain_duration,
	goals, previous_treatments, ai_summary, ai_recommendation, selected_program_name,
	selected_program_slug, upi_transaction_id, status, created_at`

func (s *PostgresStore) Create(ctx context.Context, rec Record) (string, error) {
	ctx, span := storeTracer.Start(ctx, "appointments.postgres.create")
	defer span.End()

	id := uuid.New()
	query := `
		INSERT INTO smart_appointments (
			id, name, email, phone, whatsapp, city, profession, pain_point, pain_duration,
			goals, previous_treatments, ai_summary, ai_recommendation, selected_program_name,
			selected_program_slug, upi_transaction_id, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at
	`
	if err := s.db.QueryRow(ctx, query,
		id,
		rec.Name,
		rec.Email,
		rec.Phone,
		rec.WhatsApp,
		rec.City,
		rec.Profession,
		rec.PainPoint,
		rec.PainDuration,
		rec.Goals,
		rec.PreviousTreatments,
		rec.AISummary,
		rec.AIRecommendation,
		rec.ProgramName,
		rec.ProgramSlug,
		rec.UPITransactionID,
		rec.Status,
	).Scan(&rec.CreatedAt); err != nil {
		span.RecordError(err)
		return "", fmt.Errorf("appointments: insert failed: %w", err)
	}
	return id.String(), nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Record{}, ErrNotFound
	}
	row := s.db.QueryRow(ctx, `SELECT `+selectColumns+` FROM smart_appointments WHERE id = $1`, id)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("appointments: select failed: %w", err)
	}
	return rec, nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+selectColumns+` FROM smart_appointments ORDER BY created_at DESC LIMIT $1`,
		ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("appointments: list failed: %w", err)
	}
	return scanRows(rows)
}

func (s *PostgresStore) ListByEmail(ctx context.Context, email string) ([]Record, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+selectColumns+` FROM smart_appointments WHERE email = $1 ORDER BY created_at DESC`,
		email)
	if err != nil {
		return nil, fmt.Errorf("appointments: list by email failed: %w", err)
	}
	return scanRows(rows)
}

func scanRows(rows pgx.Rows) ([]Record, error) {
	defer rows.Close()
	out := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan failed: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: rows failed: %w", err)
	}
	return out, nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	var id uuid.UUID
	err := row.Scan(
		&id,
		&rec.Name,
		&rec.Email,
		&rec.Phone,
		&rec.WhatsApp,
		&rec.City,
		&rec.Profession,
		&rec.PainPoint,
		&rec.PainDuration,
		&rec.Goals,
		&rec.PreviousTreatments,
		&rec.AISummary,
		&rec.AIRecommendation,
		&rec.ProgramName,
		&rec.ProgramSlug,
		&rec.UPITransactionID,
		&rec.Status,
		&rec.CreatedAt,
	)
	if err != nil {
		return Record{}, err
	}
	rec.ID = id.String()
	return rec, nil
}
