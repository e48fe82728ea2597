package tts

import "encoding/binary"

// DefaultBitrate is the MP3 bitrate assumed for provider audio, in bits per second.
const DefaultBitrate = 128000

const wavHeaderSize = 44

// EstimateDuration approximates the audio length in seconds from its size.
// WAV data uses the byte rate from its header; anything else is treated as
// constant-bitrate audio at bitrate bits per second.
func EstimateDuration(data []byte, bitrate int) float64 {
	if byteRate, ok := wavByteRate(data); ok {
		return float64(len(data)-wavHeaderSize) / float64(byteRate)
	}
	if bitrate <= 0 {
		bitrate = DefaultBitrate
	}
	return float64(len(data)) * 8 / float64(bitrate)
}

func wavByteRate(data []byte) (uint32, bool) {
	if len(data) < wavHeaderSize {
		return 0, false
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" || string(data[12:16]) != "fmt " {
		return 0, false
	}
	rate := binary.LittleEndian.Uint32(data[28:32])
	if rate == 0 {
		return 0, false
	}
	return rate, true
}
