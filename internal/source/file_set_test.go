package source

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("prog.pico", []byte("begin"), 0)
	id2 := fs.Add("prog.pico", []byte("begin declare"), 0)
	if id1 != 0 || id2 != 1 {
		t.Fatalf("expected ids 0 and 1, got %d and %d", id1, id2)
	}
	latest, ok := fs.GetLatest("prog.pico")
	if !ok || latest != id2 {
		t.Fatalf("expected latest id %d, got %d (ok=%v)", id2, latest, ok)
	}
	if string(fs.Get(id1).Content) != "begin" {
		t.Fatalf("older version must stay readable")
	}
}

func TestResolveCountsCharacters(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddString("a.pico", "ab\nçd\n")
	start, end := fs.Resolve(Span{File: id, Start: 5, End: 6})
	if start != (LineCol{Line: 2, Col: 2}) {
		t.Fatalf("expected 2:2, got %+v", start)
	}
	if end != (LineCol{Line: 2, Col: 3}) {
		t.Fatalf("expected 2:3, got %+v", end)
	}
	if got := fs.Get(id).Position(2); got != (Position{Line: 1, Column: 3, Offset: 2}) {
		t.Fatalf("newline must belong to the line it ends, got %+v", got)
	}
}

func TestFileEndAndGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddString("a.pico", "begin\n  end"))
	if got := f.End(); got != (Position{Line: 2, Column: 6, Offset: 11}) {
		t.Fatalf("unexpected end position %+v", got)
	}
	if f.GetLine(1) != "begin" || f.GetLine(2) != "  end" || f.GetLine(3) != "" {
		t.Fatalf("unexpected lines %q %q", f.GetLine(1), f.GetLine(2))
	}
}

func TestLoadAndLoadReaderAgree(t *testing.T) {
	raw := []byte("\xEF\xBB\xBFbegin\r\ndeclare | end")
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.pico")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	fs := NewFileSet()
	fromDisk, err := fs.Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	fromStream, err := fs.LoadReader("<stdin>", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("load reader failed: %v", err)
	}
	a, b := fs.Get(fromDisk), fs.Get(fromStream)
	if !bytes.Equal(a.Content, b.Content) {
		t.Fatalf("disk %q and stream %q differ", a.Content, b.Content)
	}
	if string(a.Content) != "begin\ndeclare | end" {
		t.Fatalf("unexpected decoded content %q", a.Content)
	}
	if a.Flags&(FileHadBOM|FileNormalizedCRLF) != FileHadBOM|FileNormalizedCRLF {
		t.Fatalf("expected BOM and CRLF flags, got %b", a.Flags)
	}
	if b.Flags&FileVirtual == 0 {
		t.Fatalf("stream input must be virtual")
	}
}

func TestDecodeUTF16(t *testing.T) {
	raw := []byte{0xFF, 0xFE, 'e', 0, 'n', 0, 'd', 0}
	content, flags, err := Decode(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if string(content) != "end" {
		t.Fatalf("expected %q, got %q", "end", content)
	}
	if flags&FileDecodedUTF16 == 0 {
		t.Fatalf("expected UTF-16 flag")
	}
}

func TestRelativePathOutsideBaseFallsBackToAbsolute(t *testing.T) {
	tmp := t.TempDir()
	baseDir := filepath.Join(tmp, "base")
	target := filepath.Join(tmp, "other", "file.pico")

	got, err := RelativePath(target, baseDir)
	if err != nil {
		t.Fatalf("RelativePath returned error: %v", err)
	}
	if want := normalizePath(target); got != want {
		t.Fatalf("expected absolute fallback %q, got %q", want, got)
	}
}
