package cache

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// The cache holds objects that are expensive to build and safe to share,
// such as compiled engine scripts. A process that builds a fresh engine
// for every request (the Lambda handler, autoplay workers) loads each
// object once.

type cache struct {
	sync.Mutex
	objects map[string]interface{}
}

type loadFunc func(key string) (interface{}, error)

// GlobalObjectCache is our global object cache, of course.
var GlobalObjectCache *cache

var createOnce sync.Once

func (c *cache) get(key string, loadFunc loadFunc) (interface{}, error) {
	c.Lock()
	defer c.Unlock()
	if obj, ok := c.objects[key]; ok {
		log.Debug().Str("key", key).Msg("getting obj from cache")
		return obj, nil
	}
	log.Debug().Str("key", key).Msg("loading into cache")
	obj, err := loadFunc(key)
	if err != nil {
		return nil, err
	}
	c.objects[key] = obj
	return obj, nil
}

func (c *cache) forget(key string) {
	c.Lock()
	defer c.Unlock()
	delete(c.objects, key)
}

func CreateGlobalObjectCache() {
	createOnce.Do(func() {
		GlobalObjectCache = &cache{objects: make(map[string]interface{})}
	})
}

// Load returns the object stored under name, calling loadFunc to build it
// the first time. A failed load is not cached.
func Load(name string, loadFunc loadFunc) (interface{}, error) {
	CreateGlobalObjectCache()
	return GlobalObjectCache.get(name, loadFunc)
}

// Forget drops name so that the next Load builds it again.
func Forget(name string) {
	CreateGlobalObjectCache()
	GlobalObjectCache.forget(name)
}
