//go:build !integration

package api_test

import (
	"context"
	"sync"
	"time"

	"workshop-voice-assistant/internal/domain"
	"workshop-voice-assistant/internal/domain/model"
	"workshop-voice-assistant/internal/usecase"
)

var (
	_ usecase.TurnUseCase   = (*mockTurns)(nil)
	_ usecase.SpeechUseCase = (*mockSpeech)(nil)
	_ usecase.JobUseCase    = (*mockJobs)(nil)
)

type mockTurns struct {
	HandleTurnFunc func(ctx context.Context, text string, history []model.HistoryMessage) (model.Reply, error)

	mu          sync.Mutex
	lastText    string
	lastHistory []model.HistoryMessage
}

func (m *mockTurns) HandleTurn(ctx context.Context, text string, history []model.HistoryMessage) (model.Reply, error) {
	m.mu.Lock()
	m.lastText, m.lastHistory = text, history
	m.mu.Unlock()
	if m.HandleTurnFunc != nil {
		return m.HandleTurnFunc(ctx, text, history)
	}
	return model.Reply{Reply: "ok"}, nil
}

type mockSpeech struct {
	SynthesizeFunc func(ctx context.Context, text string) ([]byte, error)
}

func (m *mockSpeech) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, text)
	}
	return []byte("ID3fake"), nil
}

type mockJobs struct {
	mu   sync.Mutex
	jobs []*model.Job
	err  error
}

func (m *mockJobs) InitSchema(ctx context.Context) error { return nil }

func (m *mockJobs) Create(ctx context.Context, customer *string, specs string, price *float64) (*model.Job, error) {
	if m.err != nil {
		return nil, m.err
	}
	if specs == "" {
		return nil, domain.ErrInvalidArgument
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	j := model.NewJob(customer, specs, price)
	j.ID = int64(len(m.jobs) + 1)
	j.DateCreated = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	m.jobs = append(m.jobs, j)
	return j, nil
}

func (m *mockJobs) Get(ctx context.Context, id int64) (*model.Job, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.jobs {
		if j.ID == id {
			return j, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockJobs) List(ctx context.Context) ([]*model.Job, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.Job(nil), m.jobs...), nil
}

func (m *mockJobs) ListPending(ctx context.Context) ([]*model.Job, error) {
	all, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []*model.Job
	for _, j := range all {
		if j.IsPending() {
			out = append(out, j)
		}
	}
	return out, nil
}

// countingLimiter allows limit requests per key.
type countingLimiter struct {
	mu     sync.Mutex
	counts map[string]int
	err    error
}

func (d *countingLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.counts == nil {
		d.counts = map[string]int{}
	}
	d.counts[key]++
	return d.counts[key] <= limit, nil
}
