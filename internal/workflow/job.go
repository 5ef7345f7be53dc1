package workflow

import (
	"context"
	"sync"
	"time"
)

// Job is a running lookup or rip. Events may be consumed through Events,
// Wait, or both.
type Job struct {
	ID      string
	Kind    Kind
	Device  string
	Started time.Time

	cancel context.CancelFunc

	mu       sync.Mutex
	cond     *sync.Cond
	queue    []Event
	finished bool

	streamOnce sync.Once
	stream     chan Event

	done   chan struct{}
	result Result
	err    error
}

func newJob(id string, kind Kind, device string, cancel context.CancelFunc) *Job {
	j := &Job{
		ID:      id,
		Kind:    kind,
		Device:  device,
		Started: time.Now(),
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	j.cond = sync.NewCond(&j.mu)
	return j
}

// Events returns the job's event stream. Events emitted before the first call
// are replayed. The channel is closed after the terminal event and must be
// drained by the caller once requested.
func (j *Job) Events() <-chan Event {
	j.streamOnce.Do(func() {
		j.stream = make(chan Event, 16)
		go j.forward()
	})
	return j.stream
}

// Wait blocks until the job finishes and returns its terminal outcome.
func (j *Job) Wait() (Result, error) {
	<-j.done
	return j.result, j.err
}

// Done is closed when the job has emitted its terminal event.
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Cancel aborts the job. The in-flight extractor and encoder are killed and
// the job fails with context.Canceled.
func (j *Job) Cancel() {
	if j.cancel != nil {
		j.cancel()
	}
}

func (j *Job) forward() {
	defer close(j.stream)
	next := 0
	for {
		j.mu.Lock()
		for next >= len(j.queue) {
			j.cond.Wait()
		}
		ev := j.queue[next]
		next++
		j.mu.Unlock()

		j.stream <- ev
		if ev.Kind.Terminal() {
			return
		}
	}
}

// emit appends ev to the stream. Non-terminal events after the terminal one
// are dropped.
func (j *Job) emit(ev Event) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.finished {
		return false
	}
	ev.JobID = j.ID
	if ev.Kind.Terminal() {
		j.finished = true
	}
	j.queue = append(j.queue, ev)
	j.cond.Broadcast()
	return true
}

func (j *Job) progress(percent int) {
	j.emit(Event{Kind: EventProgress, Percent: percent})
}

// finish emits the single terminal event and releases Wait.
func (j *Job) finish(result Result, err error) {
	ev := Event{Kind: EventDone, Result: &result}
	if err != nil {
		ev.Kind = EventFailed
		ev.Err = err
		ev.Message = err.Error()
	}
	if !j.emit(ev) {
		return
	}
	j.result = result
	j.err = err
	close(j.done)
}
