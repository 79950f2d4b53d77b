package protocol

import (
	"sync"

	"github.com/zhukovaskychina/xdb2-client/server/common"
)

// SlotAllocator 连接级的协议槽位编号池。同一连接上的多个语句可能并发申请和释放，
// 所有操作在同一把锁内完成。
type SlotAllocator struct {
	mu    sync.Mutex
	first int
	next  int
	max   int
	free  []int
	inUse map[int]struct{}
}

// NewSlotAllocator 编号范围 [first, first+size)
func NewSlotAllocator(first, size int) *SlotAllocator {
	return &SlotAllocator{
		first: first,
		next:  first,
		max:   first + size,
		inUse: make(map[int]struct{}),
	}
}

// Acquire 优先复用释放过的编号
func (a *SlotAllocator) Acquire() (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	var id int
	if n := len(a.free); n > 0 {
		id = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		if a.next >= a.max {
			return 0, common.Internal("no free statement slot")
		}
		id = a.next
		a.next++
	}
	a.inUse[id] = struct{}{}
	return id, nil
}

// Release 归还编号，重复释放或未分配的编号会报错
func (a *SlotAllocator) Release(id int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.inUse[id]; !ok {
		return common.Internal("slot not in use")
	}
	delete(a.inUse, id)
	a.free = append(a.free, id)
	return nil
}

func (a *SlotAllocator) InUse() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.inUse)
}
