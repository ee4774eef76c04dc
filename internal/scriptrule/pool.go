package scriptrule

import (
	"log/slog"
	"sync"

	"go.starlark.net/starlark"
)

// maxSteps bounds a single check call.
const maxSteps = 10_000_000

// threadPool reuses Starlark threads across check calls. A rule may be
// checked from several goroutines at once; each call takes its own thread.
type threadPool struct {
	mu      sync.Mutex
	threads []*starlark.Thread
	maxSize int
	logger  *slog.Logger
}

func newThreadPool(maxSize int, logger *slog.Logger) *threadPool {
	if maxSize <= 0 {
		maxSize = 4
	}
	return &threadPool{
		threads: make([]*starlark.Thread, 0, maxSize),
		maxSize: maxSize,
		logger:  logger,
	}
}

// get retrieves a thread from the pool or creates a new one.
// The thread name is used for error reporting.
func (p *threadPool) get(name string) *starlark.Thread {
	p.mu.Lock()
	defer p.mu.Unlock()

	var thread *starlark.Thread
	if n := len(p.threads); n > 0 {
		thread = p.threads[n-1]
		p.threads = p.threads[:n-1]
	} else {
		logger := p.logger
		thread = &starlark.Thread{
			Print: func(t *starlark.Thread, msg string) {
				logger.Debug("script print", "script", t.Name, "msg", msg)
			},
		}
	}
	thread.Name = name
	thread.Steps = 0
	thread.SetMaxExecutionSteps(maxSteps)
	return thread
}

// put returns a thread to the pool for reuse. Only threads whose last call
// succeeded are returned; a cancelled thread stays cancelled.
// If the pool is full, the thread is discarded.
func (p *threadPool) put(thread *starlark.Thread) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.threads) < p.maxSize {
		thread.Name = ""
		p.threads = append(p.threads, thread)
	}
}
