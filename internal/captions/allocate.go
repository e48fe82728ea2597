package captions

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

type Strategy string

const (
	StrategyUniform  Strategy = "uniform"
	StrategyWeighted Strategy = "weighted"
)

const (
	DefaultCharsPerSecond       = 15.0
	DefaultMinChunkSeconds      = 0.8
	DefaultSentencePauseSeconds = 0.25
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyUniform:
		return StrategyUniform, nil
	case StrategyWeighted, "weighted-by-length":
		return StrategyWeighted, nil
	default:
		return "", fmt.Errorf("unknown timing strategy %q", s)
	}
}

type AllocatorConfig struct {
	Strategy             Strategy
	CharsPerSecond       float64
	MinChunkSeconds      float64
	SentencePauseSeconds float64
}

func DefaultAllocatorConfig() AllocatorConfig {
	return AllocatorConfig{
		Strategy:             StrategyUniform,
		CharsPerSecond:       DefaultCharsPerSecond,
		MinChunkSeconds:      DefaultMinChunkSeconds,
		SentencePauseSeconds: DefaultSentencePauseSeconds,
	}
}

func (c AllocatorConfig) withDefaults() AllocatorConfig {
	if c.Strategy == "" {
		c.Strategy = StrategyUniform
	}
	if c.CharsPerSecond <= 0 {
		c.CharsPerSecond = DefaultCharsPerSecond
	}
	if c.MinChunkSeconds <= 0 {
		c.MinChunkSeconds = DefaultMinChunkSeconds
	}
	if c.SentencePauseSeconds < 0 {
		c.SentencePauseSeconds = 0
	}
	return c
}

// Allocate assigns each chunk a [start, end) interval inside totalSeconds.
//
// Uniform gives every chunk an equal share. Weighted sizes chunks by character
// count at CharsPerSecond (divided by speed, floored at MinChunkSeconds) with a
// pause after sentence-ending chunks, then rescales everything to totalSeconds.
// A non-positive total yields floor-length chunks and an Approximate timeline.
func Allocate(chunks []string, totalSeconds, speed float64, cfg AllocatorConfig) *Timeline {
	cfg = cfg.withDefaults()
	tl := &Timeline{Chunks: make([]Chunk, 0, len(chunks)), Strategy: cfg.Strategy}
	if len(chunks) == 0 {
		return tl
	}
	if speed <= 0 {
		speed = 1
	}

	if totalSeconds <= 0 {
		allocateFloor(tl, chunks, speed, cfg)
		return tl
	}

	switch cfg.Strategy {
	case StrategyWeighted:
		allocateWeighted(tl, chunks, totalSeconds, speed, cfg)
	default:
		allocateUniform(tl, chunks, totalSeconds)
	}
	tl.TotalSeconds = totalSeconds
	return tl
}

func allocateUniform(tl *Timeline, chunks []string, total float64) {
	n := float64(len(chunks))
	for i, text := range chunks {
		tl.Chunks = append(tl.Chunks, Chunk{
			Text:         text,
			StartSeconds: total * float64(i) / n,
			EndSeconds:   total * float64(i+1) / n,
		})
	}
	tl.Chunks[len(tl.Chunks)-1].EndSeconds = total
}

func rawDuration(text string, speed float64, cfg AllocatorConfig) float64 {
	d := float64(utf8.RuneCountInString(text)) / cfg.CharsPerSecond / speed
	if d < cfg.MinChunkSeconds {
		d = cfg.MinChunkSeconds
	}
	return d
}

func pauseAfter(chunks []string, i int, cfg AllocatorConfig) float64 {
	if i == len(chunks)-1 || !EndsSentence(chunks[i]) {
		return 0
	}
	return cfg.SentencePauseSeconds
}

func allocateWeighted(tl *Timeline, chunks []string, total, speed float64, cfg AllocatorConfig) {
	durations := make([]float64, len(chunks))
	pauses := make([]float64, len(chunks))
	sum := 0.0
	for i, text := range chunks {
		durations[i] = rawDuration(text, speed, cfg)
		pauses[i] = pauseAfter(chunks, i, cfg)
		sum += durations[i] + pauses[i]
	}

	scale := total / sum
	cursor := 0.0
	for i, text := range chunks {
		start := cursor
		end := start + durations[i]*scale
		tl.Chunks = append(tl.Chunks, Chunk{Text: text, StartSeconds: start, EndSeconds: end})
		cursor = end + pauses[i]*scale
	}
	tl.Chunks[len(tl.Chunks)-1].EndSeconds = total
}

func allocateFloor(tl *Timeline, chunks []string, speed float64, cfg AllocatorConfig) {
	cursor := 0.0
	for i, text := range chunks {
		d := cfg.MinChunkSeconds
		pause := 0.0
		if cfg.Strategy == StrategyWeighted {
			d = rawDuration(text, speed, cfg)
			pause = pauseAfter(chunks, i, cfg)
		}
		tl.Chunks = append(tl.Chunks, Chunk{Text: text, StartSeconds: cursor, EndSeconds: cursor + d})
		cursor += d + pause
	}
	tl.TotalSeconds = tl.End()
	tl.Approximate = true
}
