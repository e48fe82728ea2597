package tts

import (
	"bytes"
	"context"
	"encoding/binary"
	"strings"
)

const (
	// WordsPerSecond is the average narration rate used when no audio exists yet.
	WordsPerSecond = 2.5

	stubSampleRate = 8000
	stubChannels   = 1
	stubBitDepth   = 16
)

// EstimateSpeechSeconds approximates how long text takes to speak at speed.
func EstimateSpeechSeconds(text string, speed float64) float64 {
	if speed <= 0 {
		speed = 1
	}
	words := len(strings.Fields(text))
	return float64(words) / WordsPerSecond / speed
}

// StubSynthesizer produces silent WAV audio of the estimated speech length.
// It stands in for the provider when no API key is configured.
type StubSynthesizer struct{}

func NewStubSynthesizer() *StubSynthesizer {
	return &StubSynthesizer{}
}

func (s *StubSynthesizer) Synthesize(ctx context.Context, req NarrationRequest) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	req = req.Normalize()
	seconds := EstimateSpeechSeconds(req.Text, req.Speed)
	return &Result{Data: SilentWAV(seconds), ContentType: "audio/wav"}, nil
}

// SilentWAV encodes seconds of 16-bit mono PCM silence.
func SilentWAV(seconds float64) []byte {
	if seconds < 0 {
		seconds = 0
	}
	blockAlign := stubChannels * stubBitDepth / 8
	byteRate := stubSampleRate * blockAlign
	samples := int(seconds * stubSampleRate)
	dataSize := samples * blockAlign

	var buf bytes.Buffer
	buf.Grow(wavHeaderSize + dataSize)
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1))
	binary.Write(&buf, binary.LittleEndian, uint16(stubChannels))
	binary.Write(&buf, binary.LittleEndian, uint32(stubSampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(stubBitDepth))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	buf.Write(make([]byte, dataSize))
	return buf.Bytes()
}
