package feedback

import (
	"time"

	"github.com/kailas-cloud/fieldaim/internal/domain/alignment"
)

// StateSource provides the latest alignment snapshot.
type StateSource interface {
	State() alignment.State
}

// ToneSink plays one audible cue. Implementations must not block for much
// longer than the cue's tone length.
type ToneSink interface {
	Cue(c alignment.Cadence, s alignment.State)
}

// Timer is a pending tick that can be cancelled.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f to run once after d.
type AfterFunc func(d time.Duration, f func()) Timer

// ToneSinkFunc adapts a function to ToneSink.
type ToneSinkFunc func(c alignment.Cadence, s alignment.State)

// Cue calls f.
func (f ToneSinkFunc) Cue(c alignment.Cadence, s alignment.State) { f(c, s) }
