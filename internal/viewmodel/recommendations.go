package viewmodel

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"smartspend/internal/api"
	"smartspend/internal/cache"
	"smartspend/internal/core"
)

// RecommendationsViewModel fetches spending advice at most once per
// session and period. Results live in an in-memory TTL cache only;
// Refresh drops the cached entry and fetches again. Concurrent
// fetches for the same period collapse into a single request.
type RecommendationsViewModel struct {
	client *api.Client
	cache  *cache.LRUCache[core.RecommendationResponse]
	group  singleflight.Group

	mu      sync.Mutex
	loading bool
	errMsg  string
	current core.RecommendationResponse
}

func NewRecommendations(client *api.Client, size int, ttl time.Duration) *RecommendationsViewModel {
	return &RecommendationsViewModel{
		client: client,
		cache:  cache.NewLRUCache[core.RecommendationResponse](size, ttl),
	}
}

// Fetch returns the cached response for the period when present,
// otherwise performs the one network call and caches the result.
// Period format is yyyy/MM; empty means the backend default.
func (vm *RecommendationsViewModel) Fetch(ctx context.Context, token, period string) {
	if cached, ok := vm.cache.Get(cacheKey(token, period)); ok {
		vm.mu.Lock()
		vm.loading = false
		vm.errMsg = ""
		vm.current = cached
		vm.mu.Unlock()
		return
	}
	vm.load(ctx, token, period)
}

// Refresh forces a new fetch for the period, bypassing the cache.
func (vm *RecommendationsViewModel) Refresh(ctx context.Context, token, period string) {
	vm.cache.Delete(cacheKey(token, period))
	vm.load(ctx, token, period)
}

func (vm *RecommendationsViewModel) load(ctx context.Context, token, period string) {
	vm.mu.Lock()
	vm.loading = true
	vm.errMsg = ""
	vm.mu.Unlock()

	key := cacheKey(token, period)
	res, err, _ := vm.group.Do(key, func() (any, error) {
		return vm.client.Recommendations(ctx, token, period)
	})

	vm.mu.Lock()
	defer vm.mu.Unlock()
	vm.loading = false
	if err != nil {
		vm.errMsg = errMessage(err)
		vm.current = core.RecommendationResponse{}
		return
	}

	response := res.(core.RecommendationResponse)
	vm.cache.Set(key, response)
	vm.current = response
}

// Snapshot returns the current suggestions and flags.
func (vm *RecommendationsViewModel) Snapshot() Snapshot[core.RecommendationResponse] {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return Snapshot[core.RecommendationResponse]{
		Loading: vm.loading,
		Err:     vm.errMsg,
		Data:    vm.current,
	}
}

func cacheKey(token, period string) string {
	return token + "|" + period
}
