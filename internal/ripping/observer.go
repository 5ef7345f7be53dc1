package ripping

// Observer receives pipeline lifecycle callbacks. Nil fields are skipped.
// Callbacks run on the pipeline goroutine and should return quickly.
type Observer struct {
	TrackStarted   func(track Track, index, total int)
	TrackCompleted func(result TrackResult)
	TrackFailed    func(result TrackResult)
	Progress       func(percent int)
}

func (o *Observer) trackStarted(track Track, index, total int) {
	if o != nil && o.TrackStarted != nil {
		o.TrackStarted(track, index, total)
	}
}

func (o *Observer) trackCompleted(result TrackResult) {
	if o != nil && o.TrackCompleted != nil {
		o.TrackCompleted(result)
	}
}

func (o *Observer) trackFailed(result TrackResult) {
	if o != nil && o.TrackFailed != nil {
		o.TrackFailed(result)
	}
}

func (o *Observer) progress(percent int) {
	if o != nil && o.Progress != nil {
		o.Progress(percent)
	}
}

// Percent returns floor(completed*100/total).
func Percent(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return completed * 100 / total
}
