package playback

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidRange  = errors.New("invalid range format")
	ErrUnsatisfiable = errors.New("range not satisfiable")
)

// ByteRange is an inclusive byte span of the audio track.
type ByteRange struct {
	First int64
	Last  int64
}

func (r ByteRange) Length() int64 {
	return r.Last - r.First + 1
}

func (r ByteRange) Header(size int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", r.First, r.Last, size)
}

// ParseRange reads a single-span Range header against size bytes. A missing
// header yields nil. Only the first span of a multi-span request is honored,
// since audio elements never ask for more.
func ParseRange(header string, size int64) (*ByteRange, error) {
	if header == "" {
		return nil, nil
	}

	spec, ok := strings.CutPrefix(header, "bytes=")
	if !ok {
		return nil, ErrInvalidRange
	}
	spec, _, _ = strings.Cut(spec, ",")
	firstStr, lastStr, ok := strings.Cut(strings.TrimSpace(spec), "-")
	if !ok {
		return nil, ErrInvalidRange
	}

	var r ByteRange
	switch {
	case firstStr == "":
		n, err := strconv.ParseInt(lastStr, 10, 64)
		if err != nil || n <= 0 {
			return nil, ErrInvalidRange
		}
		r = ByteRange{First: max(size-n, 0), Last: size - 1}
	default:
		first, err := strconv.ParseInt(firstStr, 10, 64)
		if err != nil || first < 0 {
			return nil, ErrInvalidRange
		}
		last := size - 1
		if lastStr != "" {
			last, err = strconv.ParseInt(lastStr, 10, 64)
			if err != nil {
				return nil, ErrInvalidRange
			}
		}
		r = ByteRange{First: first, Last: last}
	}

	if r.First > r.Last || r.First >= size {
		return nil, ErrUnsatisfiable
	}
	r.Last = min(r.Last, size-1)
	return &r, nil
}
