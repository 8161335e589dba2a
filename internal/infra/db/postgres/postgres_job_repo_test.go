//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"

	"workshop-voice-assistant/internal/domain"
	"workshop-voice-assistant/internal/domain/model"
)

func TestPostgresJobRepo_CreateAndListPending(t *testing.T) {
	cleanup(t)
	ctx := context.Background()
	repo := NewPostgresJobRepo(testPool)

	name := "Kiran"
	price := 1200.0
	seed := []*model.Job{
		{MotorSpecs: "3HP mono", CustomerName: &name, Price: &price},
		{MotorSpecs: "table fan", Status: "Completed"},
		{MotorSpecs: "mixer", PaymentReceived: true},
	}
	for _, j := range seed {
		if err := repo.Create(ctx, j); err != nil {
			t.Fatalf("Create: %v", err)
		}
		if j.ID == 0 || j.DateCreated.IsZero() {
			t.Fatalf("defaults not returned: %+v", j)
		}
	}

	got, err := repo.ListPending(ctx)
	if err != nil {
		t.Fatalf("ListPending: %v", err)
	}
	if len(got) != 2 || got[0].MotorSpecs != "3HP mono" || got[1].MotorSpecs != "mixer" {
		t.Fatalf("unexpected pending jobs: %+v", got)
	}
	if got[0].CustomerName == nil || *got[0].CustomerName != "Kiran" || got[1].CustomerName != nil {
		t.Fatalf("customer_name not round-tripped")
	}
	if !got[1].PaymentReceived {
		t.Fatalf("payment_received lost")
	}
}

func TestPostgresJobRepo_FindByID(t *testing.T) {
	cleanup(t)
	ctx := context.Background()
	repo := NewPostgresJobRepo(testPool)

	j := &model.Job{MotorSpecs: "cooler pump"}
	if err := repo.Create(ctx, j); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.FindByID(ctx, j.ID)
	if err != nil || got.MotorSpecs != "cooler pump" || got.Status != model.JobStatusPending {
		t.Fatalf("FindByID: %+v, %v", got, err)
	}
	if _, err := repo.FindByID(ctx, j.ID+1000); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestPostgresJobRepo_IDsNotReusedAfterTruncate(t *testing.T) {
	cleanup(t)
	ctx := context.Background()
	repo := NewPostgresJobRepo(testPool)

	a := &model.Job{MotorSpecs: "a"}
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	cleanup(t)
	b := &model.Job{MotorSpecs: "b"}
	if err := repo.Create(ctx, b); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.ID <= a.ID {
		t.Fatalf("id reused or went backwards: %d then %d", a.ID, b.ID)
	}
}
