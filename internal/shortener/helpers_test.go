package shortener_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/serroba/ttl-shortener/internal/messaging"
	"github.com/serroba/ttl-shortener/internal/shortener"
	"github.com/serroba/ttl-shortener/internal/store"
	"go.uber.org/zap"
)

const (
	testBaseURL = "http://localhost:5000"
	testURL     = "https://example.com/a"
)

var errMock = errors.New("mock error")

// faultyStore wraps a MemoryStore and fails operations on keys with a given prefix.
type faultyStore struct {
	*store.MemoryStore

	getErr      error
	getPrefix   string
	existsErr   error
	setNXErr    error
	setNXPrefix string
	delay       time.Duration
	delayPrefix string

	mu     sync.Mutex
	setNXs []string
	ttls   map[string]time.Duration
}

func newFaultyStore() *faultyStore {
	return &faultyStore{MemoryStore: store.NewMemoryStore(time.Minute)}
}

func (f *faultyStore) Get(ctx context.Context, key string) (string, error) {
	if f.getErr != nil && strings.HasPrefix(key, f.getPrefix) {
		return "", f.getErr
	}

	return f.MemoryStore.Get(ctx, key)
}

func (f *faultyStore) Exists(ctx context.Context, key string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}

	return f.MemoryStore.Exists(ctx, key)
}

func (f *faultyStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	f.mu.Lock()
	f.setNXs = append(f.setNXs, key)

	if f.ttls == nil {
		f.ttls = make(map[string]time.Duration)
	}

	f.ttls[key] = ttl
	f.mu.Unlock()

	if f.delay > 0 && strings.HasPrefix(key, f.delayPrefix) {
		time.Sleep(f.delay)
	}

	if f.setNXErr != nil && strings.HasPrefix(key, f.setNXPrefix) {
		return false, f.setNXErr
	}

	return f.MemoryStore.SetNX(ctx, key, value, ttl)
}

func (f *faultyStore) writes(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0

	for _, key := range f.setNXs {
		if strings.HasPrefix(key, prefix) {
			n++
		}
	}

	return n
}

func (f *faultyStore) ttl(key string) time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.ttls[key]
}

// countingObserver records outcomes.
type countingObserver struct {
	mu         sync.Mutex
	shortened  map[string]int
	resolved   map[string]int
	collisions int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{
		shortened: make(map[string]int),
		resolved:  make(map[string]int),
	}
}

func (o *countingObserver) Shortened(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.shortened[outcome]++
}

func (o *countingObserver) Resolved(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.resolved[outcome]++
}

func (o *countingObserver) Collision() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.collisions++
}

// sequence returns a generator yielding codes in order, repeating the last one.
func sequence(codes ...string) shortener.CodeGenerator {
	var mu sync.Mutex

	i := 0

	return func() string {
		mu.Lock()
		defer mu.Unlock()

		code := codes[min(i, len(codes)-1)]
		i++

		return code
	}
}

type capturedRepairs struct {
	mu     sync.Mutex
	events []*shortener.ReverseIndexRepair
}

func (c *capturedRepairs) publish() messaging.Publish[shortener.ReverseIndexRepair] {
	return func(_ context.Context, event *shortener.ReverseIndexRepair) error {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.events = append(c.events, event)

		return nil
	}
}

func newTestService(s shortener.Store, gen shortener.CodeGenerator, cfg shortener.Config) *shortener.Service {
	if cfg.BaseURL == "" {
		cfg.BaseURL = testBaseURL
	}

	return shortener.NewService(s, gen, messaging.Discard[shortener.ReverseIndexRepair](),
		newCountingObserver(), zap.NewNop(), cfg)
}
