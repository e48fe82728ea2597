package export

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/reelforge/reelforge-agent/internal/apperrors"
)

// SanitizeName makes a project name safe to use as a file name.
func SanitizeName(s string, maxLen int) string {
	cleaned := strings.TrimSpace(strings.Map(func(r rune) rune {
		switch {
		case unicode.IsControl(r):
			return -1
		case unicode.IsLetter(r), unicode.IsDigit(r):
			return r
		case strings.ContainsRune(" -_.,()", r):
			return r
		default:
			return '_'
		}
	}, s))

	if maxLen > 0 {
		if runes := []rune(cleaned); len(runes) > maxLen {
			cleaned = string(runes[:maxLen])
		}
	}
	return cleaned
}

// ValidateOutputDir requires an existing, clean directory path without traversal.
func ValidateOutputDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return apperrors.Input("output_dir is required").WithField("output_dir")
	}
	for _, part := range strings.Split(filepath.ToSlash(dir), "/") {
		if part == ".." {
			return apperrors.Input("output_dir cannot contain path traversal").WithField("output_dir")
		}
	}
	if filepath.Clean(dir) != dir {
		return apperrors.Input("output_dir must be a clean path").WithField("output_dir")
	}

	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		return apperrors.Input("output_dir does not exist").WithField("output_dir")
	case err != nil:
		return apperrors.Input("output_dir is not accessible").WithField("output_dir").Wrap(err)
	case !info.IsDir():
		return apperrors.Input("output_dir is not a directory").WithField("output_dir")
	}
	return nil
}
