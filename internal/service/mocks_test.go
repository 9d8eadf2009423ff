package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"document-portal/internal/domain"
)

type MockLogger struct {
	mu       sync.Mutex
	messages []string
}

func NewMockLogger() *MockLogger {
	return &MockLogger{
		messages: []string{},
	}
}

func (m *MockLogger) record(line string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, line)
}

func (m *MockLogger) Info(msg string, args ...interface{}) {
	m.record("INFO: " + msg)
}

func (m *MockLogger) Error(msg string, err error, args ...interface{}) {
	if err == nil {
		m.record("ERROR: " + msg)
		return
	}
	m.record("ERROR: " + msg + " - " + err.Error())
}

func (m *MockLogger) Debug(msg string, args ...interface{}) {
	m.record("DEBUG: " + msg)
}

func (m *MockLogger) Warn(msg string, args ...interface{}) {
	m.record("WARN: " + msg)
}

func (m *MockLogger) Named(name string) domain.Logger {
	return m
}

func (m *MockLogger) Messages() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.messages...)
}

// fakeExtractor returns canned pages for any path, or failErr for paths
// listed in fail.
type fakeExtractor struct {
	pages   []string
	fail    map[string]bool
	failErr error

	mu    sync.Mutex
	calls []string
}

func newFakeExtractor(pages ...string) *fakeExtractor {
	return &fakeExtractor{
		pages:   pages,
		fail:    map[string]bool{},
		failErr: errors.New("cannot parse PDF"),
	}
}

func (f *fakeExtractor) ExtractPages(path string) ([]string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, path)
	f.mu.Unlock()

	for suffix := range f.fail {
		if strings.HasSuffix(path, suffix) {
			return nil, f.failErr
		}
	}
	return append([]string(nil), f.pages...), nil
}

type MockSessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*domain.SessionRecord
	err      error
}

func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{
		sessions: make(map[string]*domain.SessionRecord),
	}
}

func (m *MockSessionRepository) Register(id string, path string) (*domain.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if rec, ok := m.sessions[id]; ok {
		return rec, nil
	}
	rec := &domain.SessionRecord{ID: id, Path: path, CreatedAt: time.Now().UTC()}
	m.sessions[id] = rec
	return rec, nil
}

func (m *MockSessionRepository) AddFile(sessionID string, file domain.SessionFile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	rec, ok := m.sessions[sessionID]
	if !ok {
		return domain.ErrSessionNotFound
	}
	rec.PutFile(file)
	return nil
}

func (m *MockSessionRepository) Get(id string) (*domain.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return rec, nil
}

func (m *MockSessionRepository) List() ([]*domain.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*domain.SessionRecord, 0, len(m.sessions))
	for _, rec := range m.sessions {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockSessionRepository) Close() error {
	return nil
}

type MockMirror struct {
	mu    sync.Mutex
	files map[string][]byte
	err   error
}

func NewMockMirror() *MockMirror {
	return &MockMirror{
		files: make(map[string][]byte),
	}
}

func (m *MockMirror) Upload(ctx context.Context, path string, file io.Reader) error {
	if m.err != nil {
		return m.err
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = data
	return nil
}
