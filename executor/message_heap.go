package executor

import (
	"container/heap"
	"sync"
	"time"
)

// scheduledRequest is a request waiting in the heap along with its timing data.
type scheduledRequest struct {
	Request       Request
	ReadyTime     time.Time
	ExpiryTime    time.Time
	RetryInterval time.Duration
}

type heapEntry struct {
	ReadyTime time.Time
	ID        RequestID
}

type readyTimestampHeap []heapEntry

func (h readyTimestampHeap) Len() int {
	return len(h)
}

func (h readyTimestampHeap) Less(i, j int) bool {
	return h[i].ReadyTime.Before(h[j].ReadyTime)
}

func (h readyTimestampHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *readyTimestampHeap) Push(x any) {
	val, ok := x.(heapEntry)
	if !ok {
		return
	}
	*h = append(*h, val)
}

func (h *readyTimestampHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}

// requestHeap orders requests by ready time. The heap only holds ids and timestamps, the
// request data lives in a side map keyed by id.
type requestHeap struct {
	heap    readyTimestampHeap
	dataMap map[RequestID]scheduledRequest
	mu      sync.RWMutex
}

func newRequestHeap() *requestHeap {
	h := &requestHeap{dataMap: make(map[RequestID]scheduledRequest)}
	heap.Init(&h.heap)
	return h
}

// Push schedules req. A request already in the heap is left untouched and Push returns false.
func (rh *requestHeap) Push(req scheduledRequest) bool {
	rh.mu.Lock()
	defer rh.mu.Unlock()

	if _, exists := rh.dataMap[req.Request.ID]; exists {
		return false
	}
	heap.Push(&rh.heap, heapEntry{ReadyTime: req.ReadyTime, ID: req.Request.ID})
	rh.dataMap[req.Request.ID] = req
	return true
}

// PopAllReady removes and returns every request whose ready time is not after now, earliest first.
func (rh *requestHeap) PopAllReady(now time.Time) []scheduledRequest {
	rh.mu.Lock()
	defer rh.mu.Unlock()

	var ready []scheduledRequest
	for rh.heap.Len() > 0 && !rh.heap[0].ReadyTime.After(now) {
		entry, ok := heap.Pop(&rh.heap).(heapEntry)
		if !ok {
			continue
		}
		ready = append(ready, rh.dataMap[entry.ID])
		delete(rh.dataMap, entry.ID)
	}
	return ready
}

func (rh *requestHeap) Has(id RequestID) bool {
	rh.mu.RLock()
	defer rh.mu.RUnlock()
	_, exists := rh.dataMap[id]
	return exists
}

func (rh *requestHeap) Len() int {
	rh.mu.RLock()
	defer rh.mu.RUnlock()
	return len(rh.dataMap)
}
