package alignment

import "time"

// IdleInterval is the poll period while there is nothing to cue.
const IdleInterval = 1000 * time.Millisecond

// Cadence is the audible cue timing for one angular gap: the tone length and
// the delay until the next cue.
type Cadence struct {
	Tier  int
	Delay time.Duration
	Tone  time.Duration
}

type tier struct {
	maxDistance float64
	delay       time.Duration
	tone        time.Duration
}

// Upper bounds are inclusive and strictly increasing; the last tier is the
// catch-all for anything past 45 degrees.
var cadenceTiers = []tier{
	{2, 50 * time.Millisecond, 30 * time.Millisecond},
	{5, 100 * time.Millisecond, 40 * time.Millisecond},
	{10, 200 * time.Millisecond, 50 * time.Millisecond},
	{20, 400 * time.Millisecond, 60 * time.Millisecond},
	{45, 800 * time.Millisecond, 70 * time.Millisecond},
}

var farCadence = tier{delay: 1500 * time.Millisecond, tone: 80 * time.Millisecond}

// CadenceFor maps a circular distance in degrees to cue timing.
// Smaller gaps give faster, shorter beeps.
func CadenceFor(distance float64) Cadence {
	for i, t := range cadenceTiers {
		if distance <= t.maxDistance {
			return Cadence{Tier: i, Delay: t.delay, Tone: t.tone}
		}
	}
	return Cadence{Tier: len(cadenceTiers), Delay: farCadence.delay, Tone: farCadence.tone}
}
