package cart

import (
	"context"
	"sync"
	"time"

	pkgredis "github.com/angelmondragon/ayurcart-backend/pkg/redis"
)

// Storage is the key-value capability behind one cart slot. Load returns nil bytes
// and no error when the slot is absent.
type Storage interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, payload []byte) error
	Clear(ctx context.Context) error
}

// StorageFactory opens the slot for a cart id.
type StorageFactory func(cartID string) Storage

// MemoryStorage keeps the slot in process memory.
type MemoryStorage struct {
	mu      sync.Mutex
	payload []byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load(context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.payload == nil {
		return nil, nil
	}
	out := make([]byte, len(m.payload))
	copy(out, m.payload)
	return out, nil
}

func (m *MemoryStorage) Save(_ context.Context, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payload = append([]byte(nil), payload...)
	return nil
}

func (m *MemoryStorage) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payload = nil
	return nil
}

// NopStorage is used when no persistent store is available: nothing is loaded and
// writes are dropped, so the cart lives only for the current request.
type NopStorage struct{}

func (NopStorage) Load(context.Context) ([]byte, error) { return nil, nil }
func (NopStorage) Save(context.Context, []byte) error   { return nil }
func (NopStorage) Clear(context.Context) error          { return nil }

type kvStore interface {
	GetBytes(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CartKey(cartID string) string
}

// RedisStorage stores one cart per key, refreshing the TTL on every save.
type RedisStorage struct {
	kv  kvStore
	key string
	ttl time.Duration
}

func NewRedisStorage(kv kvStore, cartID string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{kv: kv, key: kv.CartKey(cartID), ttl: ttl}
}

func (r *RedisStorage) Load(ctx context.Context) ([]byte, error) {
	payload, err := r.kv.GetBytes(ctx, r.key)
	if pkgredis.IsNil(err) {
		return nil, nil
	}
	return payload, err
}

func (r *RedisStorage) Save(ctx context.Context, payload []byte) error {
	return r.kv.Set(ctx, r.key, payload, r.ttl)
}

func (r *RedisStorage) Clear(ctx context.Context) error {
	return r.kv.Del(ctx, r.key)
}

// RedisFactory opens redis-backed slots.
func RedisFactory(kv kvStore, ttl time.Duration) StorageFactory {
	return func(cartID string) Storage {
		return NewRedisStorage(kv, cartID, ttl)
	}
}

// MemoryFactory keeps one MemoryStorage per cart id for the life of the process.
func MemoryFactory() StorageFactory {
	var mu sync.Mutex
	slots := map[string]*MemoryStorage{}
	return func(cartID string) Storage {
		mu.Lock()
		defer mu.Unlock()
		slot, ok := slots[cartID]
		if !ok {
			slot = NewMemoryStorage()
			slots[cartID] = slot
		}
		return slot
	}
}

// NopFactory hands out NopStorage for every cart id.
func NopFactory() StorageFactory {
	return func(string) Storage { return NopStorage{} }
}
