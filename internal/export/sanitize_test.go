package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/reelforge/reelforge-agent/internal/apperrors"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   string
	}{
		{"control characters dropped", " A\nB\rC\tD\x00 ", 100, "ABCD"},
		{"allowed kept", "Az09 -_.,()", 100, "Az09 -_.,()"},
		{"disallowed replaced", "bad<>|\"name", 100, "bad____name"},
		{"slashes replaced", "../../etc/passwd", 100, ".._.._etc_passwd"},
		{"truncated", "abcdefghijklmnopqrstuvwxyz", 10, "abcdefghij"},
		{"unicode letters", "Café reel", 100, "Café reel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeName(tt.in, tt.maxLen); got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateOutputDir(t *testing.T) {
	base := t.TempDir()
	filePath := filepath.Join(base, "file.txt")
	if err := os.WriteFile(filePath, []byte("x"), 0o644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	tests := []struct {
		name    string
		dir     string
		wantErr bool
	}{
		{"valid", base, false},
		{"empty", "  ", true},
		{"missing", filepath.Join(base, "missing"), true},
		{"traversal", "/tmp/../etc", true},
		{"unclean", base + "/./", true},
		{"not a directory", filePath, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputDir(tt.dir)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateOutputDir(%q) error = %v, wantErr %v", tt.dir, err, tt.wantErr)
			}
			if err != nil && apperrors.CodeOf(err) != apperrors.CodeInput {
				t.Errorf("ValidateOutputDir(%q) error code = %s, want input", tt.dir, apperrors.CodeOf(err))
			}
		})
	}
}
