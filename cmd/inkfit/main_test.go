package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"honnef.co/go/inkedit/export"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	pngPath := filepath.Join(dir, "out.png")
	pdfPath := filepath.Join(dir, "out.pdf")
	in := strings.NewReader(`[
		[[10, 10], [20, 30], [40, 35], [60, 20]],
		[[5, 5]],
		[]
	]`)
	var out bytes.Buffer
	args := []string{"-width", "100", "-height", "100", "-thickness", "3", "-color", "#FF0000", "-png", pngPath, "-pdf", pdfPath}
	if err := run(args, in, &out); err != nil {
		t.Fatal(err)
	}

	var rec export.InkRecord
	if err := json.Unmarshal(out.Bytes(), &rec); err != nil {
		t.Fatal(err)
	}
	if len(rec.Paths) != 2 {
		t.Errorf("got %d paths, want 2", len(rec.Paths))
	}
	if rec.Thickness != 3 || rec.Color != [3]uint8{255, 0, 0} {
		t.Errorf("got thickness %g, color %v", rec.Thickness, rec.Color)
	}

	for _, tt := range []struct {
		path   string
		header string
	}{
		{pngPath, "\x89PNG"},
		{pdfPath, "%PDF-"},
	} {
		b, err := os.ReadFile(tt.path)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.HasPrefix(b, []byte(tt.header)) {
			t.Errorf("%s does not start with %q", filepath.Base(tt.path), tt.header)
		}
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		input string
	}{
		{"malformed JSON", nil, `[[`},
		{"no strokes", nil, `[]`},
		{"bad color", []string{"-color", "red"}, `[[[0, 0], [1, 1]]]`},
		{"missing file", []string{filepath.Join(t.TempDir(), "missing.json")}, ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := run(tt.args, strings.NewReader(tt.input), &out); err == nil {
				t.Error("run succeeded")
			}
		})
	}
}
