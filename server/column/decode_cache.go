package column

import (
	"bytes"
	"container/list"
	"sync/atomic"

	"github.com/zhukovaskychina/xdb2-client/util"
)

// stats 缓存命中统计
type stats struct {
	hitCount  uint64
	missCount uint64
}

func (st *stats) IncrHitCount() uint64 {
	return atomic.AddUint64(&st.hitCount, 1)
}

func (st *stats) IncrMissCount() uint64 {
	return atomic.AddUint64(&st.missCount, 1)
}

// HitCount returns hit count
func (st *stats) HitCount() uint64 {
	return atomic.LoadUint64(&st.hitCount)
}

// MissCount returns miss count
func (st *stats) MissCount() uint64 {
	return atomic.LoadUint64(&st.missCount)
}

// HitRate returns rate for cache hitting
func (st *stats) HitRate() float64 {
	hc, mc := st.HitCount(), st.MissCount()
	total := hc + mc
	if total == 0 {
		return 0.0
	}
	return float64(hc) / float64(total)
}

type cacheItem struct {
	hash  uint64
	key   []byte
	value interface{}
}

// decodeCache 以源字节内容为键缓存解码结果，淘汰最久未使用的条目。
// 只在单个列内使用，不加锁。
type decodeCache struct {
	size  int
	items map[uint64]*list.Element
	order *list.List
	*stats
}

func newDecodeCache(size int) *decodeCache {
	if size <= 0 {
		return nil
	}
	return &decodeCache{
		size:  size,
		items: make(map[uint64]*list.Element, size),
		order: list.New(),
		stats: &stats{},
	}
}

func (c *decodeCache) Get(key []byte) (interface{}, bool) {
	if c == nil {
		return nil, false
	}
	h := util.HashCode(key)
	if e, ok := c.items[h]; ok {
		item := e.Value.(*cacheItem)
		if bytes.Equal(item.key, key) {
			c.order.MoveToFront(e)
			c.IncrHitCount()
			return item.value, true
		}
	}
	c.IncrMissCount()
	return nil, false
}

// Set 保存键的副本，行缓冲随后会被覆盖
func (c *decodeCache) Set(key []byte, value interface{}) {
	if c == nil {
		return
	}
	h := util.HashCode(key)
	if e, ok := c.items[h]; ok {
		item := e.Value.(*cacheItem)
		item.key = append(item.key[:0], key...)
		item.value = value
		c.order.MoveToFront(e)
		return
	}
	if c.order.Len() >= c.size {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cacheItem).hash)
	}
	item := &cacheItem{hash: h, key: append([]byte(nil), key...), value: value}
	c.items[h] = c.order.PushFront(item)
}

// Remove 删除单个条目
func (c *decodeCache) Remove(key []byte) bool {
	if c == nil {
		return false
	}
	h := util.HashCode(key)
	e, ok := c.items[h]
	if !ok || !bytes.Equal(e.Value.(*cacheItem).key, key) {
		return false
	}
	c.order.Remove(e)
	delete(c.items, h)
	return true
}

// Purge removes all key-value pairs from the cache.
func (c *decodeCache) Purge() {
	if c == nil {
		return
	}
	c.items = make(map[uint64]*list.Element, c.size)
	c.order.Init()
}

func (c *decodeCache) Len() int {
	if c == nil {
		return 0
	}
	return c.order.Len()
}
