//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"workshop-voice-assistant/internal/domain"
	"workshop-voice-assistant/internal/domain/model"
	"workshop-voice-assistant/internal/usecase"
)

func TestJobUC_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMockJobRepo()
	uc := usecase.NewJobUseCase(repo)

	j, err := uc.Create(ctx, strPtr("Suresh"), "5HP 3-phase motor", floatPtr(2400))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if j.ID == 0 || j.Status != model.JobStatusPending || j.PaymentReceived {
		t.Fatalf("defaults not applied: %+v", j)
	}

	got, err := uc.Get(ctx, j.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.MotorSpecs != "5HP 3-phase motor" || *got.CustomerName != "Suresh" {
		t.Fatalf("got %+v", got)
	}

	if _, err := uc.Get(ctx, 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if _, err := uc.Get(ctx, 0); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
}

func TestJobUC_CreateRequiresSpecs(t *testing.T) {
	uc := usecase.NewJobUseCase(NewMockJobRepo())
	if _, err := uc.Create(context.Background(), nil, "  ", nil); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("want ErrInvalidArgument, got %v", err)
	}
}

func TestJobUC_IDsAreNeverReused(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewJobUseCase(NewMockJobRepo())
	seen := map[int64]bool{}
	for i := 0; i < 5; i++ {
		j, err := uc.Create(ctx, nil, "fan", nil)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if seen[j.ID] {
			t.Fatalf("id %d reused", j.ID)
		}
		seen[j.ID] = true
	}
}
