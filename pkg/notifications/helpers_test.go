package notifications

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/stretchr/testify/mock"
)

type memKV struct {
	mu   sync.Mutex
	data map[string][]byte
	err  error
	sets int
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string][]byte)}
}

func (m *memKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sets++
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memKV) setCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

var errKVDown = errors.New("kv down")

// MockBackend for testing Store and Router
type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) List(ctx context.Context, includeRead bool) ([]Notification, error) {
	args := m.Called(ctx, includeRead)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Notification), args.Error(1)
}

func (m *MockBackend) MarkRead(ctx context.Context, id string, value bool) error {
	args := m.Called(ctx, id, value)
	return args.Error(0)
}

func (m *MockBackend) Create(ctx context.Context, n Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// MockChannel for testing Router and MultiChannel
type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) Deliver(ctx context.Context, pkg Package) error {
	args := m.Called(ctx, pkg)
	return args.Error(0)
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return "n" + strconv.Itoa(n)
	}
}
