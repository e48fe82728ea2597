package captions

import (
	"strings"
	"unicode/utf8"
)

const DefaultWordsPerChunk = 3

type SegmentOptions struct {
	WordsPerChunk int
	SentenceAware bool
}

// Segment splits narration text into display chunks of WordsPerChunk words.
// With SentenceAware set, a chunk never crosses a sentence boundary.
// Joining the result with single spaces gives back the whitespace-normalized text.
func Segment(text string, opts SegmentOptions) []string {
	size := opts.WordsPerChunk
	if size <= 0 {
		size = DefaultWordsPerChunk
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{}
	}

	if !opts.SentenceAware {
		return group(words, size)
	}

	chunks := make([]string, 0, len(words)/size+1)
	for _, sentence := range splitSentences(words) {
		chunks = append(chunks, group(sentence, size)...)
	}
	return chunks
}

func group(words []string, size int) []string {
	chunks := make([]string, 0, len(words)/size+1)
	for start := 0; start < len(words); start += size {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
	}
	return chunks
}

func splitSentences(words []string) [][]string {
	var sentences [][]string
	start := 0
	for i, w := range words {
		if EndsSentence(w) {
			sentences = append(sentences, words[start:i+1])
			start = i + 1
		}
	}
	if start < len(words) {
		sentences = append(sentences, words[start:])
	}
	return sentences
}

// EndsSentence reports whether a word or chunk closes a sentence, looking past
// trailing quotes and brackets.
func EndsSentence(s string) bool {
	trimmed := strings.TrimRight(s, "\"'”’)]}»")
	if trimmed == "" {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(trimmed)
	switch r {
	case '.', '!', '?', ':', ';', '…':
		return true
	}
	return false
}
