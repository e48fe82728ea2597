// Package captions turns narration text into a timed caption timeline and
// answers which caption is on screen at a given playback time.
package captions

import (
	"fmt"
	"sort"
)

type Chunk struct {
	Text         string  `json:"text"`
	StartSeconds float64 `json:"start_s"`
	EndSeconds   float64 `json:"end_s"`
}

func (c Chunk) Duration() float64 {
	return c.EndSeconds - c.StartSeconds
}

// Timeline is the ordered, time-stamped chunk sequence for one narration.
// Approximate is set when no positive total duration was known at allocation time.
type Timeline struct {
	Chunks       []Chunk  `json:"chunks"`
	TotalSeconds float64  `json:"total_s"`
	Approximate  bool     `json:"approximate"`
	Strategy     Strategy `json:"strategy"`
}

func (tl *Timeline) Len() int {
	if tl == nil {
		return 0
	}
	return len(tl.Chunks)
}

func (tl *Timeline) End() float64 {
	if tl.Len() == 0 {
		return 0
	}
	return tl.Chunks[len(tl.Chunks)-1].EndSeconds
}

// Select returns the index of the chunk whose [start, end) interval contains t.
// It reports false before the first chunk, inside pause gaps and after the last chunk.
func (tl *Timeline) Select(t float64) (int, bool) {
	n := tl.Len()
	if n == 0 {
		return 0, false
	}

	// first chunk starting after t; the candidate is the one before it
	i := sort.Search(n, func(i int) bool {
		return tl.Chunks[i].StartSeconds > t
	}) - 1
	if i < 0 {
		return 0, false
	}
	if t < tl.Chunks[i].EndSeconds {
		return i, true
	}
	return 0, false
}

// Rescale stretches every boundary linearly so the timeline ends at total.
// It is used once the real audio duration replaces the byte-size estimate.
func (tl *Timeline) Rescale(total float64) {
	end := tl.End()
	if total <= 0 || end <= 0 {
		return
	}
	factor := total / end
	for i := range tl.Chunks {
		tl.Chunks[i].StartSeconds *= factor
		tl.Chunks[i].EndSeconds *= factor
	}
	tl.Chunks[len(tl.Chunks)-1].EndSeconds = total
	tl.TotalSeconds = total
	tl.Approximate = false
}

// Clone returns a deep copy safe to hand out to readers.
func (tl *Timeline) Clone() *Timeline {
	if tl == nil {
		return nil
	}
	out := *tl
	out.Chunks = append([]Chunk(nil), tl.Chunks...)
	return &out
}

// Validate checks the ordering invariants: positive chunk length and no overlap.
func (tl *Timeline) Validate() error {
	for i, c := range tl.Chunks {
		if !(c.StartSeconds < c.EndSeconds) {
			return fmt.Errorf("chunk %d: start %.3f not before end %.3f", i, c.StartSeconds, c.EndSeconds)
		}
		if i > 0 && tl.Chunks[i-1].EndSeconds > c.StartSeconds+1e-9 {
			return fmt.Errorf("chunk %d overlaps previous chunk", i)
		}
	}
	return nil
}
