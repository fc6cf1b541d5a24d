package pipeline

import "context"

// Task is a handle on a Run executing in the background.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
	result *Result
	err    error
}

// Start runs urls in a new goroutine and returns its handle.
// The run stops early when ctx is canceled or Cancel is called.
func (p *Pipeline) Start(ctx context.Context, urls []string) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		defer cancel()
		t.result, t.err = p.Run(ctx, urls)
	}()
	return t
}

// Cancel stops the run. The URL in progress fails and stays pending.
// Cancel does not wait; use Wait or Done.
func (t *Task) Cancel() { t.cancel() }

// Done is closed when the run has finished.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the run finishes and returns its result.
func (t *Task) Wait() (*Result, error) {
	<-t.done
	return t.result, t.err
}
