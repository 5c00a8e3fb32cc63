package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"pico/internal/diag"
	"pico/internal/source"
	"pico/internal/token"
)

func TestJSONDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.Add("/tmp/examples/e.pico", []byte("begin declare 1x, | end"), 0)

	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.SynMismatch, source.Span{File: fileID, Start: 15, End: 16},
		"Expected DECLARATION_END but received IDENTIFIER at 1:16").
		WithNote(source.Span{File: fileID, Start: 14, End: 15}, "declared name"))
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{File: fileID}, "timings"))

	var buf bytes.Buffer
	err := JSON(&buf, bag, fs, JSONOpts{IncludePositions: true, PathMode: PathModeBasename, Max: 1})
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("Max not applied: %+v", out)
	}
	d := out.Diagnostics[0]
	if d.Code != "SYN2001" || d.Severity != "ERROR" {
		t.Errorf("unexpected code/severity: %+v", d)
	}
	if d.Location.File != "e.pico" || d.Location.StartLine != 1 || d.Location.StartCol != 16 || d.Location.EndCol != 17 {
		t.Errorf("unexpected location: %+v", d.Location)
	}
	if len(d.Notes) != 0 {
		t.Errorf("notes must be omitted unless requested")
	}
}

func TestJSONTimingNotesAlwaysIncluded(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("<timings>", nil)
	bag := diag.NewBag(0)
	bag.Add(diag.New(diag.SevInfo, diag.ObsTimings, source.Span{File: fileID}, "timings").
		WithNote(source.Span{File: fileID}, "recognize: 1.0ms"))

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{})
	if len(out.Diagnostics[0].Notes) != 1 {
		t.Fatalf("timing notes dropped: %+v", out)
	}
}

func TestTokensOutput(t *testing.T) {
	toks := []token.Token{
		{Kind: token.Begin, Value: "begin", Pos: source.Position{Line: 1, Column: 1}},
		{Kind: token.Identifier, Value: "x", Pos: source.Position{Line: 2, Column: 3, Offset: 8}},
	}
	var pretty bytes.Buffer
	if err := FormatTokensPretty(&pretty, toks); err != nil {
		t.Fatal(err)
	}
	want := "  1: BEGIN            \"begin\" at 1:1\n  2: IDENTIFIER       \"x\" at 2:3\n"
	if pretty.String() != want {
		t.Errorf("pretty tokens:\n%q\nwant\n%q", pretty.String(), want)
	}

	var js bytes.Buffer
	if err := FormatTokensJSON(&js, toks); err != nil {
		t.Fatal(err)
	}
	var got []TokenOutput
	if err := json.Unmarshal(js.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[1].Offset != 8 || got[1].Kind != "IDENTIFIER" {
		t.Errorf("unexpected json tokens: %+v", got)
	}
}

func TestParsePathMode(t *testing.T) {
	m, err := ParsePathMode("relative")
	if err != nil || m != PathModeRelative {
		t.Fatalf("ParsePathMode(relative) = %v, %v", m, err)
	}
	if _, err := ParsePathMode("weird"); err == nil {
		t.Fatalf("expected error")
	}
}
