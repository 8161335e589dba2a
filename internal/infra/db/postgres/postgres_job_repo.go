package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"workshop-voice-assistant/internal/domain"
	"workshop-voice-assistant/internal/domain/model"
	"workshop-voice-assistant/internal/domain/ports/repository"
	"workshop-voice-assistant/internal/infra/metrics"
)

// Ensure interface compliance
var _ repository.JobRepository = (*PostgresJobRepo)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
  job_id           BIGSERIAL PRIMARY KEY,
  customer_name    TEXT,
  motor_specs      TEXT NOT NULL,
  status           TEXT NOT NULL DEFAULT 'Pending',
  price            DOUBLE PRECISION,
  payment_received BOOLEAN NOT NULL DEFAULT FALSE,
  date_created     TIMESTAMPTZ NOT NULL DEFAULT now()
);`

const selectCols = `job_id, customer_name, motor_specs, status, price, payment_received, date_created`

type PostgresJobRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresJobRepo(pool *pgxpool.Pool) *PostgresJobRepo {
	return &PostgresJobRepo{pool: pool}
}

func (r *PostgresJobRepo) InitSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return classify("init schema", err)
	}
	return nil
}

func (r *PostgresJobRepo) ListPending(ctx context.Context) ([]*model.Job, error) {
	defer r.observePool()
	const sql = `
SELECT ` + selectCols + `
  FROM jobs
 WHERE status = $1
 ORDER BY job_id;`
	return r.query(ctx, sql, string(model.JobStatusPending))
}

func (r *PostgresJobRepo) List(ctx context.Context) ([]*model.Job, error) {
	return r.query(ctx, `SELECT `+selectCols+` FROM jobs ORDER BY job_id;`)
}

func (r *PostgresJobRepo) FindByID(ctx context.Context, id int64) (*model.Job, error) {
	const sql = `SELECT ` + selectCols + ` FROM jobs WHERE job_id = $1;`
	j, err := scanJob(r.pool.QueryRow(ctx, sql, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, classify("FindByID job", err)
	}
	return j, nil
}

func (r *PostgresJobRepo) Create(ctx context.Context, job *model.Job) error {
	status := job.Status
	if status == "" {
		status = model.JobStatusPending
	}
	const sql = `
INSERT INTO jobs (customer_name, motor_specs, status, price, payment_received)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + selectCols + `;`
	stored, err := scanJob(r.pool.QueryRow(ctx, sql,
		job.CustomerName, job.MotorSpecs, string(status), job.Price, job.PaymentReceived))
	if err != nil {
		return classify("Create job", err)
	}
	*job = *stored
	return nil
}

func (r *PostgresJobRepo) Close() error {
	r.pool.Close()
	return nil
}

func (r *PostgresJobRepo) query(ctx context.Context, sql string, args ...interface{}) ([]*model.Job, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, classify("query jobs", err)
	}
	defer rows.Close()

	var out []*model.Job
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, classify("scan job", err)
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("query jobs", err)
	}
	return out, nil
}

func scanJob(row pgx.Row) (*model.Job, error) {
	var (
		j      model.Job
		status string
	)
	if err := row.Scan(&j.ID, &j.CustomerName, &j.MotorSpecs, &status, &j.Price, &j.PaymentReceived, &j.DateCreated); err != nil {
		return nil, err
	}
	j.Status = model.JobStatus(status)
	j.DateCreated = j.DateCreated.UTC()
	return &j, nil
}

// classify maps constraint violations to ErrInvalidArgument and everything else
// (connection refused, missing table, ...) to ErrStorageUnavailable.
func classify(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23502", "23514": // not_null_violation, check_violation
			return fmt.Errorf("%s: %w: %s", op, domain.ErrInvalidArgument, pgErr.Message)
		}
	}
	return fmt.Errorf("%s: %w: %v", op, domain.ErrStorageUnavailable, err)
}

func (r *PostgresJobRepo) observePool() {
	s := r.pool.Stat()
	metrics.SetJobStoreConns("postgres", int(s.TotalConns()), int(s.IdleConns()), int(s.AcquiredConns()))
}
