package model

import (
	"encoding/json"
	"time"
)

type JobStatus string

const (
	JobStatusPending JobStatus = "Pending"
)

// DateLayout matches SQLite's CURRENT_TIMESTAMP text form.
const DateLayout = "2006-01-02 15:04:05"

// Job is a motor rewinding job as stored in the jobs table.
type Job struct {
	ID              int64
	CustomerName    *string
	MotorSpecs      string
	Status          JobStatus
	Price           *float64
	PaymentReceived bool
	DateCreated     time.Time
}

// NewJob returns a job with the table defaults applied.
func NewJob(customer *string, specs string, price *float64) *Job {
	return &Job{
		CustomerName: customer,
		MotorSpecs:   specs,
		Status:       JobStatusPending,
		Price:        price,
	}
}

func (j *Job) IsPending() bool { return j.Status == JobStatusPending }

// jobRow is the column-named shape used in the prompt snapshot and the admin API.
type jobRow struct {
	JobID           int64    `json:"job_id"`
	CustomerName    *string  `json:"customer_name"`
	MotorSpecs      string   `json:"motor_specs"`
	Status          string   `json:"status"`
	Price           *float64 `json:"price"`
	PaymentReceived int      `json:"payment_received"`
	DateCreated     string   `json:"date_created"`
}

// MarshalJSON emits the row exactly as the jobs table holds it
// (payment_received as 0/1, date_created as "YYYY-MM-DD HH:MM:SS").
func (j Job) MarshalJSON() ([]byte, error) {
	paid := 0
	if j.PaymentReceived {
		paid = 1
	}
	created := ""
	if !j.DateCreated.IsZero() {
		created = j.DateCreated.UTC().Format(DateLayout)
	}
	return json.Marshal(jobRow{
		JobID:           j.ID,
		CustomerName:    j.CustomerName,
		MotorSpecs:      j.MotorSpecs,
		Status:          string(j.Status),
		Price:           j.Price,
		PaymentReceived: paid,
		DateCreated:     created,
	})
}
