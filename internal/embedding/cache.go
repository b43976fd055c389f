package embedding

import "sync"

// Cache 文本到向量的进程内缓存，只增不删
type Cache struct {
	mu      sync.RWMutex
	vectors map[string]Vector
}

func NewCache() *Cache {
	return &Cache{vectors: make(map[string]Vector)}
}

func (c *Cache) Get(text string) (Vector, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.vectors[text]
	return v, ok
}

// LoadOrStore 已存在时返回旧值，否则写入 v
func (c *Cache) LoadOrStore(text string, v Vector) Vector {
	c.mu.Lock()
	defer c.mu.Unlock()
	if old, ok := c.vectors[text]; ok {
		return old
	}
	c.vectors[text] = v
	return v
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.vectors)
}
