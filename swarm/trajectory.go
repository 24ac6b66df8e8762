package swarm

import (
	"time"

	pf "github.com/jhoydich/pursuit-filter"
)

// TrajectoryLen is the number of centroid samples kept.
const TrajectoryLen = 100

// Sample is one recorded centroid position.
type Sample struct {
	pf.Point
	Time time.Time `json:"time"`
}

// Trajectory is a fixed-capacity ring of the most recent centroid samples.
type Trajectory struct {
	buf   [TrajectoryLen]Sample
	start int
	n     int
}

// Push appends s, evicting the oldest sample when full.
func (t *Trajectory) Push(s Sample) {
	if t.n < TrajectoryLen {
		t.buf[(t.start+t.n)%TrajectoryLen] = s
		t.n++
		return
	}
	t.buf[t.start] = s
	t.start = (t.start + 1) % TrajectoryLen
}

// Len returns the number of stored samples.
func (t *Trajectory) Len() int { return t.n }

// Samples returns the stored samples, oldest first.
func (t *Trajectory) Samples() []Sample {
	out := make([]Sample, t.n)
	for i := range out {
		out[i] = t.buf[(t.start+i)%TrajectoryLen]
	}
	return out
}

// Clear drops all samples.
func (t *Trajectory) Clear() {
	t.start, t.n = 0, 0
}
