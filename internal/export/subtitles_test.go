package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reelforge/reelforge-agent/internal/apperrors"
	"github.com/reelforge/reelforge-agent/internal/captions"
	"github.com/reelforge/reelforge-agent/internal/style"
)

func sampleTimeline() *captions.Timeline {
	return &captions.Timeline{
		Chunks: []captions.Chunk{
			{Text: "Hello there friend", StartSeconds: 0, EndSeconds: 1.5},
			{Text: "fish & <chips>", StartSeconds: 1.5, EndSeconds: 3.0006},
		},
		TotalSeconds: 3.0006,
	}
}

func TestGenerateSRT(t *testing.T) {
	got := GenerateSRT(sampleTimeline(), nil)
	want := "1\n00:00:00,000 --> 00:00:01,500\nHello there friend\n\n" +
		"2\n00:00:01,500 --> 00:00:03,001\nfish & <chips>\n\n"
	if got != want {
		t.Errorf("GenerateSRT() =\n%q\nwant\n%q", got, want)
	}
}

func TestGenerateSRT_Styled(t *testing.T) {
	st := style.Default()
	st.Bold = true
	st.Italic = true
	got := GenerateSRT(sampleTimeline(), &st)
	if !strings.Contains(got, "<b><i>Hello there friend</i></b>") {
		t.Errorf("GenerateSRT() styled output = %q", got)
	}
}

func TestGenerateVTT(t *testing.T) {
	st := style.Default()
	st.Position = style.PositionTop
	got := GenerateVTT(sampleTimeline(), &st)

	if !strings.HasPrefix(got, "WEBVTT\n\n") {
		t.Errorf("missing header: %q", got)
	}
	if !strings.Contains(got, "00:00:00.000 --> 00:00:01.500 line:10%\n") {
		t.Errorf("missing cue timing with position: %q", got)
	}
	if !strings.Contains(got, "fish &amp; &lt;chips&gt;") {
		t.Errorf("cue text not escaped: %q", got)
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{-1, "00:00:00,000"},
		{1.2346, "00:00:01,235"},
		{59.9999, "00:01:00,000"},
		{3725.5, "01:02:05,500"},
	}
	for _, tt := range tests {
		if got := formatTimestamp(tt.seconds, ','); got != tt.want {
			t.Errorf("formatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	src := Source{Timeline: sampleTimeline(), Items: carouselItems(), PerItemSeconds: 2}

	tests := []struct {
		format    string
		wantFile  string
		wantCount int
	}{
		{"srt", "My Reel.srt", 2},
		{"VTT", "My Reel.vtt", 2},
		{"edl", "My Reel.edl", 2},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			res, err := Write(Request{ProjectName: "My Reel", Format: tt.format, OutputDir: dir}, src)
			if err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if res.OutputPath != filepath.Join(dir, tt.wantFile) || res.EntryCount != tt.wantCount {
				t.Errorf("Write() = %+v", res)
			}
			if _, err := os.Stat(res.OutputPath); err != nil {
				t.Errorf("output not written: %v", err)
			}
		})
	}
}

func TestWrite_Rejects(t *testing.T) {
	dir := t.TempDir()
	good := Source{Timeline: sampleTimeline(), Items: carouselItems(), PerItemSeconds: 5}
	badStyle := style.Default()
	badStyle.Opacity = 3

	tests := []struct {
		name string
		req  Request
		src  Source
	}{
		{"unknown format", Request{Format: "ass", OutputDir: dir}, good},
		{"bad dir", Request{Format: "srt", OutputDir: filepath.Join(dir, "nope")}, good},
		{"no timeline", Request{Format: "srt", OutputDir: dir}, Source{}},
		{"edl without media", Request{Format: "edl", OutputDir: dir}, Source{Timeline: sampleTimeline()}},
		{"bad style", Request{Format: "vtt", OutputDir: dir, Style: &badStyle}, good},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Write(tt.req, tt.src)
			if apperrors.CodeOf(err) != apperrors.CodeInput {
				t.Errorf("Write() error = %v, want input error", err)
			}
		})
	}
}
