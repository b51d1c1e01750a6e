package source

import (
	"errors"
	"io/fs"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.html", []byte("hello world"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	latestID, exists := fs.GetLatest("test.html")
	if !exists {
		t.Error("Expected file to exist after Add")
	}
	if latestID != id1 {
		t.Errorf("Expected latest ID to be %d, got %d", id1, latestID)
	}

	id2 := fs.Add("test.html", []byte("hello universe"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	latestID, _ = fs.GetLatest("test.html")
	if latestID != id2 {
		t.Errorf("Expected latest ID to be %d, got %d", id2, latestID)
	}

	if got := string(fs.Get(id1).Content); got != "hello world" {
		t.Errorf("Expected first file content to be 'hello world', got '%s'", got)
	}
	if fs.Get(42) != nil {
		t.Error("Expected nil for unknown FileID")
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	id := fs.AddVirtual("a.html", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
	if file.LineCount() != 3 {
		t.Errorf("Expected 3 lines, got %d", file.LineCount())
	}
}

func TestPosition(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("p.html", []byte("ab\ncd\n\nx")))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{2, LineCol{Line: 1, Col: 3}}, // the newline belongs to line 1
		{3, LineCol{Line: 2, Col: 1}},
		{4, LineCol{Line: 2, Col: 2}},
		{6, LineCol{Line: 3, Col: 1}},
		{7, LineCol{Line: 4, Col: 1}},
	}
	for _, tt := range tests {
		if got := file.Position(tt.off); got != tt.want {
			t.Errorf("Position(%d) = %+v, want %+v", tt.off, got, tt.want)
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("g.html", []byte("first\nsecond\n\nlast")))

	tests := map[uint32]string{0: "", 1: "first", 2: "second", 3: "", 4: "last", 5: ""}
	for line, want := range tests {
		if got := file.GetLine(line); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", line, got, want)
		}
	}
	if got := file.LineStart(2); got != 6 {
		t.Errorf("LineStart(2) = %d, want 6", got)
	}
}

func TestReadNormalizes(t *testing.T) {
	r := MapReader{"/tpl/a.html": "\xEF\xBB\xBFx\r\ny"}
	set := NewFileSet()

	id, err := set.Read(r, "/tpl/a.html")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	file := set.Get(id)
	if string(file.Content) != "x\ny" {
		t.Errorf("Expected normalized content, got %q", file.Content)
	}
	if file.Flags&FileHadBOM == 0 || file.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("Expected BOM and CRLF flags, got %b", file.Flags)
	}

	_, err = set.Read(r, "/tpl/missing.html")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Expected fs.ErrNotExist, got %v", err)
	}
}

func TestCRLFNormalization(t *testing.T) {
	normalized, changed := normalizeCRLF([]byte("a\r\nb\r\nc\r"))
	if !changed {
		t.Error("Expected CRLF normalization to be detected")
	}
	if string(normalized) != "a\nb\nc\r" {
		t.Errorf("Expected lone \\r to survive, got %q", normalized)
	}

	same, changed := normalizeCRLF([]byte("plain"))
	if changed || string(same) != "plain" {
		t.Errorf("Expected untouched content, got %q (changed=%v)", same, changed)
	}
}
