package captions

// Builder bundles the segmenter and allocator settings chosen by configuration.
type Builder struct {
	Segment  SegmentOptions
	Allocate AllocatorConfig
}

func NewBuilder(seg SegmentOptions, alloc AllocatorConfig) *Builder {
	return &Builder{Segment: seg, Allocate: alloc}
}

// Build segments text and allocates the chunks over totalSeconds.
func (b *Builder) Build(text string, totalSeconds, speed float64) *Timeline {
	return Allocate(Segment(text, b.Segment), totalSeconds, speed, b.Allocate)
}
