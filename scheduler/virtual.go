package scheduler

import (
	"container/heap"
	"sync"
	"time"
)

// Virtual is a Scheduler whose clock only moves when told to.
type Virtual struct {
	mu    sync.Mutex
	now   time.Time
	seq   uint64
	queue taskQueue
}

// NewVirtual creates a virtual scheduler whose clock starts at start.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start}
}

// Now returns the virtual time.
func (v *Virtual) Now() time.Time {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// Schedule queues fn to run once the clock reaches now+delay.
func (v *Virtual) Schedule(delay time.Duration, fn func()) Task {
	return v.push(delay, 0, fn)
}

// SchedulePeriodically queues fn at now+initial and then every period.
func (v *Virtual) SchedulePeriodically(initial, period time.Duration, fn func()) Task {
	if period <= 0 {
		panic("scheduler: non-positive period")
	}
	return v.push(initial, period, fn)
}

// Pending returns the number of queued tasks.
func (v *Virtual) Pending() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.queue)
}

// AdvanceBy moves the clock forward by d, running every task that falls due.
func (v *Virtual) AdvanceBy(d time.Duration) {
	v.AdvanceTo(v.Now().Add(d))
}

// AdvanceTo moves the clock to t, running due tasks in (due, schedule) order.
// Tasks scheduled by a running task are picked up if they fall due by t.
// The clock never moves backwards.
func (v *Virtual) AdvanceTo(t time.Time) {
	for {
		v.mu.Lock()
		if len(v.queue) == 0 || v.queue[0].due.After(t) {
			if t.After(v.now) {
				v.now = t
			}
			v.mu.Unlock()
			return
		}
		task := heap.Pop(&v.queue).(*virtualTask)
		if task.due.After(v.now) {
			v.now = task.due
		}
		if task.period > 0 {
			task.due = task.due.Add(task.period)
			task.seq = v.nextSeq()
			heap.Push(&v.queue, task)
		} else {
			task.fired = true
		}
		v.mu.Unlock()

		task.fn()
	}
}

func (v *Virtual) push(delay, period time.Duration, fn func()) *virtualTask {
	v.mu.Lock()
	defer v.mu.Unlock()
	if delay < 0 {
		delay = 0
	}
	task := &virtualTask{
		owner:  v,
		due:    v.now.Add(delay),
		period: period,
		seq:    v.nextSeq(),
		fn:     fn,
	}
	heap.Push(&v.queue, task)
	return task
}

func (v *Virtual) nextSeq() uint64 {
	v.seq++
	return v.seq
}

type virtualTask struct {
	owner     *Virtual
	due       time.Time
	period    time.Duration
	seq       uint64
	fn        func()
	index     int
	fired     bool
	cancelled bool
}

func (t *virtualTask) Cancel() bool {
	v := t.owner
	v.mu.Lock()
	defer v.mu.Unlock()
	if t.cancelled || t.fired {
		return false
	}
	t.cancelled = true
	if t.index >= 0 {
		heap.Remove(&v.queue, t.index)
	}
	return true
}

// taskQueue is a min-heap on (due, seq).
type taskQueue []*virtualTask

func (q taskQueue) Len() int { return len(q) }

func (q taskQueue) Less(i, j int) bool {
	if q[i].due.Equal(q[j].due) {
		return q[i].seq < q[j].seq
	}
	return q[i].due.Before(q[j].due)
}

func (q taskQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *taskQueue) Push(x any) {
	t := x.(*virtualTask)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *taskQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
