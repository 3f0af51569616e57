package dialog

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Registry hands out one Controller per user. Idle controllers expire and
// have their dialogs closed.
type Registry struct {
	factory     ContentFactory
	controllers *cache.Cache
	mu          sync.Mutex
}

func NewRegistry(factory ContentFactory, ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	r := &Registry{factory: factory, controllers: cache.New(ttl, ttl/2)}
	r.controllers.OnEvicted(r.evicted)
	return r
}

func (r *Registry) evicted(_ string, value interface{}) {
	if ctrl, ok := value.(*Controller); ok {
		ctrl.CloseAll()
	}
}

func (r *Registry) Controller(userID primitive.ObjectID) *Controller {
	key := userID.Hex()

	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.controllers.Get(key); ok {
		ctrl := v.(*Controller)
		r.controllers.Set(key, ctrl, cache.DefaultExpiration)
		return ctrl
	}
	r.controllers.Delete(key)
	ctrl := NewController(userID, r.factory)
	r.controllers.Set(key, ctrl, cache.DefaultExpiration)
	return ctrl
}

// Drop closes and forgets the user's dialogs.
func (r *Registry) Drop(userID primitive.ObjectID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.controllers.Delete(userID.Hex())
}
