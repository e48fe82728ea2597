package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reelforge/reelforge-agent/internal/export"
)

func TestStylesHandler(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodGet, "/styles", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	var resp StylesResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Styles) == 0 {
		t.Fatal("no styles returned")
	}
	for i := 1; i < len(resp.Styles); i++ {
		if resp.Styles[i-1].Name > resp.Styles[i].Name {
			t.Errorf("styles not sorted: %q before %q", resp.Styles[i-1].Name, resp.Styles[i].Name)
		}
	}
}

func TestExportCaptions_NothingToExport(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, http.MethodPost, "/export/captions", ExportCaptionsRequest{Format: "srt"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, http.StatusBadRequest, rr.Body.String())
	}
}

func TestExportCaptions(t *testing.T) {
	env := newTestEnv(t)
	env.addMedia(t, "a.png", "b.mp4")

	rr := env.do(t, http.MethodPost, "/narration", NarrationRequest{Text: "one two three four five six seven eight nine ten"})
	if rr.Code != http.StatusOK {
		t.Fatalf("narration status = %d, body %s", rr.Code, rr.Body.String())
	}

	outDir := t.TempDir()
	tests := []struct {
		name        string
		req         ExportCaptionsRequest
		wantExt     string
		wantEntries int
		wantText    string
	}{
		{"srt", ExportCaptionsRequest{ProjectName: "Demo Reel", Format: "srt", OutputDir: outDir}, ".srt", 4, "one two three"},
		{"vtt preset", ExportCaptionsRequest{ProjectName: "Demo Reel", Format: "vtt", OutputDir: outDir, StylePreset: "headline"}, ".vtt", 4, "WEBVTT"},
		{"edl", ExportCaptionsRequest{ProjectName: "Demo Reel", Format: "edl", OutputDir: outDir, FrameRate: 25}, ".edl", 1, "TITLE: Demo Reel"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/export/captions", tt.req)
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, http.StatusOK, rr.Body.String())
			}
			var res export.Result
			if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if res.OutputPath != filepath.Join(outDir, "Demo Reel"+tt.wantExt) {
				t.Errorf("output path = %q", res.OutputPath)
			}
			if res.EntryCount != tt.wantEntries {
				t.Errorf("entry count = %d, want %d", res.EntryCount, tt.wantEntries)
			}
			data, err := os.ReadFile(res.OutputPath)
			if err != nil {
				t.Fatalf("read export: %v", err)
			}
			if !strings.Contains(string(data), tt.wantText) {
				t.Errorf("export missing %q:\n%s", tt.wantText, data)
			}
		})
	}
}

func TestExportCaptions_DefaultDir(t *testing.T) {
	env := newTestEnv(t)
	env.addMedia(t, "a.png")
	env.do(t, http.MethodPost, "/narration", NarrationRequest{Text: "hello there friend"})

	rr := env.do(t, http.MethodPost, "/export/captions", ExportCaptionsRequest{Format: "vtt"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rr.Code, rr.Body.String())
	}
	want := filepath.Join(env.cfg.ExportDir, "narration.vtt")
	if _, err := os.Stat(want); err != nil {
		t.Errorf("expected export at %s: %v", want, err)
	}
}

func TestExportCaptions_Rejects(t *testing.T) {
	env := newTestEnv(t)
	env.addMedia(t, "a.png")
	env.do(t, http.MethodPost, "/narration", NarrationRequest{Text: "hello there friend"})

	outDir := t.TempDir()
	tests := []struct {
		name  string
		req   ExportCaptionsRequest
		field string
	}{
		{"format", ExportCaptionsRequest{Format: "docx", OutputDir: outDir}, "format"},
		{"traversal", ExportCaptionsRequest{Format: "srt", OutputDir: outDir + "/../x"}, "output_dir"},
		{"missing dir", ExportCaptionsRequest{Format: "srt", OutputDir: filepath.Join(outDir, "nope")}, "output_dir"},
		{"preset", ExportCaptionsRequest{Format: "srt", OutputDir: outDir, StylePreset: "comic-sans"}, "style_preset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := env.do(t, http.MethodPost, "/export/captions", tt.req)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d (body %s)", rr.Code, http.StatusBadRequest, rr.Body.String())
			}
			if body := decodeJSONBody(t, rr); body["field"] != tt.field {
				t.Errorf("field = %v, want %q", body["field"], tt.field)
			}
		})
	}
}
