package repository

import (
	"context"

	"workshop-voice-assistant/internal/domain/model"
)

// JobRepository is the durable job store. The turn pipeline only calls ListPending;
// the rest serves the admin tooling.
type JobRepository interface {
	// ListPending returns every job whose status is exactly "Pending", in insertion order.
	ListPending(ctx context.Context) ([]*model.Job, error)

	InitSchema(ctx context.Context) error
	Create(ctx context.Context, job *model.Job) error
	FindByID(ctx context.Context, id int64) (*model.Job, error)
	List(ctx context.Context) ([]*model.Job, error)
	Close() error
}
