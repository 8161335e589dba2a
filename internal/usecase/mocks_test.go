//go:build !integration

package usecase_test

import (
	"context"
	"sync"

	"workshop-voice-assistant/internal/domain"
	"workshop-voice-assistant/internal/domain/model"
	"workshop-voice-assistant/internal/domain/ports/adapter"
	"workshop-voice-assistant/internal/domain/ports/repository"
)

// ---- Mock JobRepository ----

type MockJobRepo struct {
	mu     sync.Mutex
	jobs   []*model.Job
	nextID int64

	ListPendingErr error
	CreateErr      error
}

var _ repository.JobRepository = (*MockJobRepo)(nil)

func NewMockJobRepo(jobs ...*model.Job) *MockJobRepo {
	m := &MockJobRepo{}
	for _, j := range jobs {
		_ = m.Create(context.Background(), j)
	}
	return m
}

func (m *MockJobRepo) ListPending(ctx context.Context) ([]*model.Job, error) {
	if m.ListPendingErr != nil {
		return nil, m.ListPendingErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Job
	for _, j := range m.jobs {
		if j.IsPending() {
			cp := *j
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MockJobRepo) InitSchema(ctx context.Context) error { return nil }

func (m *MockJobRepo) Create(ctx context.Context, job *model.Job) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	job.ID = m.nextID
	if job.Status == "" {
		job.Status = model.JobStatusPending
	}
	m.jobs = append(m.jobs, job)
	return nil
}

func (m *MockJobRepo) FindByID(ctx context.Context, id int64) (*model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.jobs {
		if j.ID == id {
			cp := *j
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockJobRepo) List(ctx context.Context) ([]*model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		cp := *j
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MockJobRepo) Close() error { return nil }

// ---- Mock AIServiceAdapter ----

type MockAI struct {
	mu    sync.Mutex
	Calls []adapter.ChatRequest

	ChatFunc        func(ctx context.Context, req adapter.ChatRequest) (string, adapter.Usage, error)
	CountTokensFunc func(ctx context.Context, req adapter.ChatRequest) (int, error)
}

var _ adapter.AIServiceAdapter = (*MockAI)(nil)

func (m *MockAI) Name() string { return "mock" }

func (m *MockAI) CountTokens(ctx context.Context, req adapter.ChatRequest) (int, error) {
	if m.CountTokensFunc != nil {
		return m.CountTokensFunc(ctx, req)
	}
	return 0, nil
}

func (m *MockAI) Chat(ctx context.Context, req adapter.ChatRequest) (string, adapter.Usage, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, req)
	m.mu.Unlock()
	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, req)
	}
	return `{"reply": "ok"}`, adapter.Usage{}, nil
}

func (m *MockAI) LastCall() adapter.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return adapter.ChatRequest{}
	}
	return m.Calls[len(m.Calls)-1]
}

// ---- Mock SpeechSynthesizer ----

type MockTTS struct {
	LastText string
	LastLang string

	SynthesizeFunc func(ctx context.Context, text, lang string) ([]byte, error)
}

var _ adapter.SpeechSynthesizer = (*MockTTS)(nil)

func (m *MockTTS) Name() string { return "mock-tts" }

func (m *MockTTS) Synthesize(ctx context.Context, text, lang string) ([]byte, error) {
	m.LastText, m.LastLang = text, lang
	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, text, lang)
	}
	return []byte("ID3fake-mp3"), nil
}

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }
