package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-formfill/pkg/model"
)

// Key is the backend key that holds the persisted identity.
const Key = "user"

// ErrPartialIdentity is returned by SetUser when only one of roll number and
// name is provided.
var ErrPartialIdentity = errors.New("session: roll number and name must be set together")

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for recoverable backend problems.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Store is the in-memory identity plus its durable mirror.
type Store struct {
	backend Backend
	logger  *zap.Logger

	mu       sync.RWMutex
	identity model.UserIdentity

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(model.UserIdentity)
}

// New creates an empty store over backend. Call Load to pick up a persisted
// identity.
func New(backend Backend, opts ...Option) *Store {
	if backend == nil {
		backend = NewMemoryBackend()
	}
	s := &Store{
		backend: backend,
		logger:  zap.NewNop(),
		subs:    make(map[int]func(model.UserIdentity)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Load reads the persisted identity. An absent or unreadable payload leaves
// the store empty; only backend failures are returned.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.backend.Get(ctx, Key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.set(model.UserIdentity{})
			return nil
		}
		return fmt.Errorf("session: load: %w", err)
	}

	var identity model.UserIdentity
	if err := json.Unmarshal(data, &identity); err != nil || !identity.Complete() {
		s.logger.Warn("discarding persisted identity", zap.Error(err), zap.ByteString("payload", data))
		s.set(model.UserIdentity{})
		return nil
	}
	s.set(identity)
	return nil
}

// Identity returns the current identity.
func (s *Store) Identity() model.UserIdentity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// LoggedIn reports whether a roll number is set.
func (s *Store) LoggedIn() bool {
	return s.Identity().RollNumber != ""
}

// SetUser replaces the identity. Passing two empty strings clears both the
// backend key and the in-memory copy. The in-memory state only changes once
// the backend write succeeds.
func (s *Store) SetUser(ctx context.Context, rollNumber, name string) error {
	identity := model.UserIdentity{RollNumber: rollNumber, Name: name}

	switch {
	case identity.IsZero():
		if err := s.backend.Delete(ctx, Key); err != nil {
			return fmt.Errorf("session: clear: %w", err)
		}
	case !identity.Complete():
		return ErrPartialIdentity
	default:
		data, err := json.Marshal(identity)
		if err != nil {
			return fmt.Errorf("session: encode identity: %w", err)
		}
		if err := s.backend.Set(ctx, Key, data); err != nil {
			return fmt.Errorf("session: persist: %w", err)
		}
	}

	s.set(identity)
	return nil
}

// Clear removes the identity.
func (s *Store) Clear(ctx context.Context) error {
	return s.SetUser(ctx, "", "")
}

// Subscribe registers fn to run after every update, including Load. The
// returned func removes the subscription.
func (s *Store) Subscribe(fn func(model.UserIdentity)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Store) set(identity model.UserIdentity) {
	s.mu.Lock()
	s.identity = identity
	s.mu.Unlock()

	s.subMu.Lock()
	subs := make([]func(model.UserIdentity), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(identity)
	}
}
