package publish

import (
	"context"
	"log/slog"
	"sync"
)

// Pool is the bounded worker pool publish runs execute on. Admission callers
// submit ids and return immediately; workers drain the queue until Stop.
type Pool struct {
	jobs   chan uint64
	stop   chan struct{}
	wg     sync.WaitGroup
	cancel context.CancelFunc
	run    func(ctx context.Context, publishID uint64)
}

func NewPool(workers, queueSize int, run func(ctx context.Context, publishID uint64)) *Pool {
	p := &Pool{
		jobs: make(chan uint64, queueSize),
		stop: make(chan struct{}),
		run:  run,
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	return p
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()
	for {
		select {
		case publishID := <-p.jobs:
			p.run(ctx, publishID)
		case <-p.stop:
			return
		}
	}
}

// Submit queues a run for execution. Blocks only when the queue is full.
func (p *Pool) Submit(publishID uint64) {
	select {
	case p.jobs <- publishID:
	case <-p.stop:
		slog.Warn("publish pool stopped, dropping run", "id", publishID)
	}
}

// Stop drains in-flight runs before releasing their context, so a run caught
// by a shutdown still reaches its terminal ledger state.
func (p *Pool) Stop() {
	slog.Info("Stopping publish pool")
	close(p.stop)
	p.wg.Wait()
	p.cancel()
}
