// file: internals/cache/cache.go
package cache

import (
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Store adalah cache TTL ringan untuk hasil list-query (schedules, students).
// Key dibentuk dari nama entity + filter; semua key milik satu entity
// di-invalidate saat ada write ke entity tersebut.
type Store struct {
	c   *gocache.Cache
	ttl time.Duration
}

func New(ttl time.Duration) *Store {
	return &Store{
		c:   gocache.New(ttl, 2*ttl),
		ttl: ttl,
	}
}

func Key(entity string, filters ...string) string {
	return entity + "|" + strings.Join(filters, "|")
}

func (s *Store) Get(key string) (interface{}, bool) {
	if s == nil {
		return nil, false
	}
	return s.c.Get(key)
}

func (s *Store) Set(key string, value interface{}) {
	if s == nil {
		return
	}
	s.c.Set(key, value, s.ttl)
}

// InvalidateEntity membuang semua entry milik satu entity (prefix match).
func (s *Store) InvalidateEntity(entity string) {
	if s == nil {
		return
	}
	prefix := entity + "|"
	for key := range s.c.Items() {
		if strings.HasPrefix(key, prefix) {
			s.c.Delete(key)
		}
	}
}

// FilterKey serialisasi pasangan filter → bagian key yang stabil.
func FilterKey(k, v string) string {
	return fmt.Sprintf("%s=%s", k, v)
}
