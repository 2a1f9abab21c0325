package worker_pool

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

const (
	defaultWorkerPoolSize int = 64
)

var ErrorPoolClosed = errors.New("worker pool is closed")

type iWorkerPoolImpl struct {
	tasks    chan Task
	capacity int
	running  int32
	closed   bool
	mutex    sync.RWMutex
	wg       sync.WaitGroup
}

func Factory() (IWorkerPool, error) {
	return FactoryOf(defaultWorkerPoolSize)
}

func FactoryOf(capacity int) (IWorkerPool, error) {
	if capacity <= 0 {
		return nil, errors.Errorf("invalid worker pool capacity %d", capacity)
	}

	pool := &iWorkerPoolImpl{
		tasks:    make(chan Task, capacity),
		capacity: capacity,
	}

	pool.wg.Add(capacity)
	for i := 0; i < capacity; i++ {
		go pool.worker()
	}

	return pool, nil
}

func (pool *iWorkerPoolImpl) worker() {
	defer pool.wg.Done()
	for task := range pool.tasks {
		atomic.AddInt32(&pool.running, 1)
		task()
		atomic.AddInt32(&pool.running, -1)
	}
}

// SubmitTask holds the read lock across the send so Shutdown cannot close the
// channel between the closed check and the send.
func (pool *iWorkerPoolImpl) SubmitTask(task Task) error {
	pool.mutex.RLock()
	defer pool.mutex.RUnlock()

	if pool.closed {
		return ErrorPoolClosed
	}

	select {
	case pool.tasks <- task:
		return nil
	default:
		return errors.Errorf("worker pool saturated, capacity %d", pool.capacity)
	}
}

func (pool *iWorkerPoolImpl) Running() int {
	return int(atomic.LoadInt32(&pool.running))
}

func (pool *iWorkerPoolImpl) Capability() int {
	return pool.capacity
}

func (pool *iWorkerPoolImpl) Available() int {
	return pool.capacity - pool.Running()
}

func (pool *iWorkerPoolImpl) Shutdown() {
	pool.mutex.Lock()
	if pool.closed {
		pool.mutex.Unlock()
		return
	}
	pool.closed = true
	close(pool.tasks)
	pool.mutex.Unlock()

	pool.wg.Wait()
}
