package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopeFile, true},
		{LevelPhase, ScopePhase, false},
		{LevelDetail, ScopePhase, true},
		{LevelDetail, ScopeRule, false},
		{LevelDebug, ScopeRule, true},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope); got != tc.want {
			t.Errorf("%s/%s: got %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("DEBUG")
	if err != nil || l != LevelDebug {
		t.Fatalf("ParseLevel(DEBUG) = %v, %v", l, err)
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)

	root := Begin(tr, ScopeFile, "a.pico", 0)
	child := Begin(tr, ScopePhase, "recognize", root.ID())
	rule := Begin(tr, ScopeRule, "program", child.ID()) // отсекается уровнем
	rule.End("")
	child.WithExtra("tokens", "10").End("ok")
	root.End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 events, got %d:\n%s", len(lines), buf.String())
	}
	var ev jsonEvent
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if ev.Kind != "end" || ev.Name != "recognize" || ev.Extra["tokens"] != "10" || ev.ParentID != root.ID() {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestRingKeepsLastEvents(t *testing.T) {
	r := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopeRule, name, "", 0)
	}
	snap := r.Snapshot()
	if len(snap) != 3 || snap[0].Name != "c" || snap[2].Name != "e" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if !strings.Contains(buf.String(), "• e") {
		t.Fatalf("dump missing last event:\n%s", buf.String())
	}
}

func TestDisabledSpanIsSafe(t *testing.T) {
	s := Begin(Nop, ScopeDriver, "check", 0)
	s.WithExtra("k", "v")
	if d := s.End("done"); d != 0 {
		t.Fatalf("disabled span reported duration %v", d)
	}
	if s.ID() != 0 {
		t.Fatalf("disabled span must have zero ID")
	}
}

func TestContextPropagation(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatalf("expected Nop without tracer")
	}
	r := NewRingTracer(8, LevelPhase)
	ctx := WithTracer(context.Background(), r)
	span := Begin(FromContext(ctx), ScopeDriver, "check", 0)
	ctx = WithParent(ctx, span)
	if ParentFrom(ctx) != span.ID() || span.ID() == 0 {
		t.Fatalf("parent not propagated")
	}
}

func TestNewModes(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil || tr.Enabled() {
		t.Fatalf("off level must give Nop")
	}
	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m, ok := tr.(*MultiTracer)
	if !ok {
		t.Fatalf("expected MultiTracer, got %T", tr)
	}
	Begin(m, ScopeDriver, "check", 0).End("")
	ring, ok := m.Ring()
	if !ok || len(ring.Snapshot()) != 2 {
		t.Fatalf("ring did not receive events")
	}
	if !strings.Contains(buf.String(), "→ check") {
		t.Fatalf("stream missing begin event: %q", buf.String())
	}
	if err := tr.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
