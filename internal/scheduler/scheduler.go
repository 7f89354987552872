// Package scheduler orders pending tasks by priority.
package scheduler

import (
	"container/heap"

	"github.com/gurkanbulca/taskplanner/internal/models"
)

// PriorityScheduler keeps tasks in a binary min-heap keyed by
// (priority, arrival sequence). Equal priorities are served in arrival order.
// The priority is captured at Add; to change it, Remove the task and Add it
// again.
type PriorityScheduler struct {
	items taskHeap
	seq   uint64
}

// New returns an empty scheduler.
func New() *PriorityScheduler {
	return &PriorityScheduler{}
}

// Add inserts the task in O(log n).
func (s *PriorityScheduler) Add(t *models.Task) {
	s.seq++
	heap.Push(&s.items, entry{task: t, priority: t.Priority, seq: s.seq})
}

// PeekNext returns the most urgent task that can still be worked on without
// removing it. Completed and archived tasks ahead of it stay in the heap.
// The boolean is false when nothing is pending.
func (s *PriorityScheduler) PeekNext() (*models.Task, bool) {
	if len(s.items) == 0 {
		return nil, false
	}
	if s.items[0].task.IsSchedulable() {
		return s.items[0].task, true
	}

	// The root is done; walk the heap in order on a scratch copy so the
	// real structure is left untouched.
	scratch := make(taskHeap, len(s.items))
	copy(scratch, s.items)
	for len(scratch) > 0 {
		e := heap.Pop(&scratch).(entry)
		if e.task.IsSchedulable() {
			return e.task, true
		}
	}
	return nil, false
}

// Remove excises the task with the given id. The lookup is a linear scan.
func (s *PriorityScheduler) Remove(taskID string) bool {
	for i, e := range s.items {
		if e.task.ID == taskID {
			heap.Remove(&s.items, i)
			return true
		}
	}
	return false
}

// Len returns the number of tasks held, finished ones included.
func (s *PriorityScheduler) Len() int {
	return len(s.items)
}

type entry struct {
	task     *models.Task
	priority int
	seq      uint64
}

// taskHeap implements heap.Interface (min at root).
type taskHeap []entry

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x any) { *h = append(*h, x.(entry)) }

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = entry{}
	*h = old[:n-1]
	return e
}
