package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"workshop-voice-assistant/internal/domain"
	"workshop-voice-assistant/internal/domain/model"
	"workshop-voice-assistant/internal/domain/ports/repository"
	"workshop-voice-assistant/internal/infra/metrics"
)

// Ensure interface compliance
var _ repository.JobRepository = (*JobRepo)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
    job_id INTEGER PRIMARY KEY AUTOINCREMENT,
    customer_name TEXT, motor_specs TEXT NOT NULL,
    status TEXT DEFAULT 'Pending', price REAL,
    payment_received INTEGER DEFAULT 0,
    date_created TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

const selectCols = `job_id, customer_name, motor_specs, status, price, payment_received, date_created`

type JobRepo struct {
	db *sql.DB
}

func NewJobRepo(db *sql.DB) *JobRepo {
	return &JobRepo{db: db}
}

func (r *JobRepo) InitSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("%w: init schema: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *JobRepo) ListPending(ctx context.Context) ([]*model.Job, error) {
	defer r.observePool()
	return r.query(ctx, `SELECT `+selectCols+` FROM jobs WHERE status = ? ORDER BY job_id`, string(model.JobStatusPending))
}

func (r *JobRepo) List(ctx context.Context) ([]*model.Job, error) {
	return r.query(ctx, `SELECT `+selectCols+` FROM jobs ORDER BY job_id`)
}

func (r *JobRepo) FindByID(ctx context.Context, id int64) (*model.Job, error) {
	jobs, err := r.query(ctx, `SELECT `+selectCols+` FROM jobs WHERE job_id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, domain.ErrNotFound
	}
	return jobs[0], nil
}

// Create inserts job and fills in the assigned id and the stored defaults.
func (r *JobRepo) Create(ctx context.Context, job *model.Job) error {
	status := job.Status
	if status == "" {
		status = model.JobStatusPending
	}
	paid := 0
	if job.PaymentReceived {
		paid = 1
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO jobs (customer_name, motor_specs, status, price, payment_received) VALUES (?, ?, ?, ?, ?)`,
		job.CustomerName, job.MotorSpecs, string(status), job.Price, paid)
	if err != nil {
		if strings.Contains(err.Error(), "NOT NULL constraint failed") {
			return fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
		}
		return fmt.Errorf("%w: insert job: %v", domain.ErrStorageUnavailable, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert job: %w", err)
	}
	stored, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	*job = *stored
	return nil
}

func (r *JobRepo) Close() error { return r.db.Close() }

func (r *JobRepo) query(ctx context.Context, q string, args ...any) ([]*model.Job, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var out []*model.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return out, nil
}

func scanJob(rows *sql.Rows) (*model.Job, error) {
	var (
		j        model.Job
		customer sql.NullString
		status   sql.NullString
		price    sql.NullFloat64
		paid     sql.NullInt64
		created  any
	)
	if err := rows.Scan(&j.ID, &customer, &j.MotorSpecs, &status, &price, &paid, &created); err != nil {
		return nil, fmt.Errorf("scan job: %w", err)
	}
	if customer.Valid {
		j.CustomerName = &customer.String
	}
	if status.Valid {
		j.Status = model.JobStatus(status.String)
	}
	if price.Valid {
		j.Price = &price.Float64
	}
	j.PaymentReceived = paid.Valid && paid.Int64 != 0
	t, err := parseTimestamp(created)
	if err != nil {
		return nil, fmt.Errorf("scan job %d: %w", j.ID, err)
	}
	j.DateCreated = t
	return &j, nil
}

// parseTimestamp accepts whatever the driver hands back for a TIMESTAMP column.
func parseTimestamp(v any) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return t.UTC(), nil
	case []byte:
		return parseTimestamp(string(t))
	case string:
		for _, layout := range []string{model.DateLayout, time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02"} {
			if ts, err := time.Parse(layout, t); err == nil {
				return ts.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognised timestamp %q", t)
	case int64:
		return time.Unix(t, 0).UTC(), nil
	default:
		return time.Time{}, errors.New("unsupported timestamp type")
	}
}

func (r *JobRepo) observePool() {
	s := r.db.Stats()
	metrics.SetJobStoreConns("sqlite", s.OpenConnections, s.Idle, s.InUse)
}
