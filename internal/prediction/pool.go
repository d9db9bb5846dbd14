package prediction

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

var ErrPoolClosed = errors.New("prediction pool is shut down")

// Job is one unit of work handed to a worker. Run receives the pool's context,
// which is cancelled on Shutdown.
type Job struct {
	EmployeeID int64
	Run        func(ctx context.Context) error
	Done       chan<- JobResult
}

type JobResult struct {
	EmployeeID int64
	Err        error
}

type Worker struct {
	ID         int
	WorkerPool chan chan Job
	JobChannel chan Job
	Logger     *slog.Logger
}

func NewWorker(id int, workerPool chan chan Job, logger *slog.Logger) *Worker {
	return &Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan Job),
		Logger:     logger,
	}
}

func (w *Worker) Start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()

		for {
			select {
			case w.WorkerPool <- w.JobChannel:
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}

			select {
			case job := <-w.JobChannel:
				w.Logger.Debug("worker processing job", "worker_id", w.ID, "employee_id", job.EmployeeID)
				err := job.Run(ctx)
				if job.Done != nil {
					job.Done <- JobResult{EmployeeID: job.EmployeeID, Err: err}
				}
			case <-ctx.Done():
				w.Logger.Debug("worker shutting down", "worker_id", w.ID)
				return
			}
		}
	}()
}

type PoolConfig struct {
	MaxWorkers     int
	JobQueueSize   int
	WorkerPoolSize int
}

// Pool is a fixed set of workers fed by a dispatcher from a buffered queue.
type Pool struct {
	logger *slog.Logger

	jobQueue   chan Job
	workerPool chan chan Job
	maxWorkers int
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	once       sync.Once
}

func NewPool(config PoolConfig, logger *slog.Logger) *Pool {
	ctx, cancel := context.WithCancel(context.Background())

	maxWorkers := config.MaxWorkers
	if maxWorkers <= 0 {
		maxWorkers = 4
	}

	jobQueueSize := config.JobQueueSize
	if jobQueueSize <= 0 {
		jobQueueSize = 100
	}

	workerPoolSize := config.WorkerPoolSize
	if workerPoolSize <= 0 {
		workerPoolSize = maxWorkers
	}

	p := &Pool{
		logger:     logger,
		maxWorkers: maxWorkers,
		jobQueue:   make(chan Job, jobQueueSize),
		workerPool: make(chan chan Job, workerPoolSize),
		ctx:        ctx,
		cancel:     cancel,
	}
	p.start()
	return p
}

func (p *Pool) start() {
	p.once.Do(func() {
		for i := 0; i < p.maxWorkers; i++ {
			NewWorker(i, p.workerPool, p.logger).Start(p.ctx, &p.wg)
		}

		p.wg.Add(1)
		go p.dispatch()

		p.logger.Info("prediction worker pool started",
			"max_workers", p.maxWorkers,
			"queue_size", cap(p.jobQueue))
	})
}

func (p *Pool) dispatch() {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobQueue:
			select {
			case jobChannel := <-p.workerPool:
				select {
				case jobChannel <- job:
				case <-p.ctx.Done():
					p.abandon(job)
					return
				}
			case <-p.ctx.Done():
				p.abandon(job)
				return
			}
		case <-p.ctx.Done():
			p.logger.Info("dispatcher shutting down")
			return
		}
	}
}

func (p *Pool) abandon(job Job) {
	if job.Done != nil {
		job.Done <- JobResult{EmployeeID: job.EmployeeID, Err: ErrPoolClosed}
	}
}

// Submit blocks until the job is queued, ctx ends, or the pool shuts down.
func (p *Pool) Submit(ctx context.Context, job Job) error {
	select {
	case <-p.ctx.Done():
		return ErrPoolClosed
	default:
	}

	select {
	case p.jobQueue <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrPoolClosed
	}
}

func (p *Pool) Shutdown() {
	p.logger.Info("shutting down prediction worker pool")
	p.cancel()
	p.wg.Wait()
	p.logger.Info("prediction worker pool shutdown complete")
}

// Closed is closed once Shutdown starts.
func (p *Pool) Closed() <-chan struct{} {
	return p.ctx.Done()
}
