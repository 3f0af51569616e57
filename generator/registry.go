package generator

import (
	"sync"
	"time"

	"teamsync-project/backend/workspace-service/logging"

	"github.com/patrickmn/go-cache"
)

type RegistryOptions struct {
	Delay    time.Duration
	TTL      time.Duration
	Roster   *Roster
	Observer Observer
}

// Registry keeps one Session per user. Idle sessions expire after the TTL
// and are reset on the way out so no timer outlives them.
type Registry struct {
	opts     RegistryOptions
	sessions *cache.Cache
	mu       sync.Mutex
}

func NewRegistry(opts RegistryOptions) *Registry {
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Minute
	}
	if opts.Roster == nil {
		opts.Roster, _ = NewRoster(DefaultRoster())
	}

	r := &Registry{opts: opts, sessions: cache.New(opts.TTL, opts.TTL/2)}
	r.sessions.OnEvicted(r.evicted)
	return r
}

func (r *Registry) evicted(key string, value interface{}) {
	if s, ok := value.(*Session); ok {
		s.Reset()
	}
	logging.Logger.Debugf("Event ID: GENERATOR_SESSION_EVICTED, Description: Session for %s evicted", key)
}

// Session returns the user's session, creating it on first use. Every call
// extends the session's lifetime.
func (r *Registry) Session(userID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.sessions.Get(userID); ok {
		s := v.(*Session)
		r.sessions.Set(userID, s, cache.DefaultExpiration)
		return s
	}
	// an expired entry the janitor has not reached yet still needs its reset
	r.sessions.Delete(userID)
	s := NewSession(userID, r.opts.Delay, r.opts.Roster, r.opts.Observer)
	r.sessions.Set(userID, s, cache.DefaultExpiration)
	return s
}

// Drop resets and forgets the user's session.
func (r *Registry) Drop(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions.Delete(userID)
}

func (r *Registry) Roster() *Roster {
	return r.opts.Roster
}
