// File: internal/usecase/job_uc.go
package usecase

import (
	"context"
	"strings"

	"workshop-voice-assistant/internal/domain"
	"workshop-voice-assistant/internal/domain/model"
	"workshop-voice-assistant/internal/domain/ports/repository"
)

// Compile-time check
var _ JobUseCase = (*jobUC)(nil)

// JobUseCase is the administrative path for jobs. The turn pipeline never uses it.
type JobUseCase interface {
	InitSchema(ctx context.Context) error
	Create(ctx context.Context, customer *string, motorSpecs string, price *float64) (*model.Job, error)
	Get(ctx context.Context, id int64) (*model.Job, error)
	List(ctx context.Context) ([]*model.Job, error)
	ListPending(ctx context.Context) ([]*model.Job, error)
}

type jobUC struct {
	repo repository.JobRepository
}

func NewJobUseCase(repo repository.JobRepository) *jobUC {
	return &jobUC{repo: repo}
}

func (u *jobUC) InitSchema(ctx context.Context) error {
	return u.repo.InitSchema(ctx)
}

// Create stores a new pending job. motor_specs is the only required field.
func (u *jobUC) Create(ctx context.Context, customer *string, motorSpecs string, price *float64) (*model.Job, error) {
	if strings.TrimSpace(motorSpecs) == "" {
		return nil, domain.ErrInvalidArgument
	}
	j := model.NewJob(customer, motorSpecs, price)
	if err := u.repo.Create(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

func (u *jobUC) Get(ctx context.Context, id int64) (*model.Job, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return u.repo.FindByID(ctx, id)
}

func (u *jobUC) List(ctx context.Context) ([]*model.Job, error) {
	return u.repo.List(ctx)
}

func (u *jobUC) ListPending(ctx context.Context) ([]*model.Job, error) {
	return u.repo.ListPending(ctx)
}
