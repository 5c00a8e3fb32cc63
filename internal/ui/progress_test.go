package ui

import (
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pico/internal/driver"
)

func newModel(files ...string) *progressModel {
	m, ok := NewProgressModel("pico check", files, nil).(*progressModel)
	if !ok {
		panic("unexpected model type")
	}
	return m
}

func TestApplyEventTracksStatus(t *testing.T) {
	m := newModel("a.pico", "b.pico")

	m.applyEvent(driver.Event{File: "a.pico", Stage: driver.StageLoad, Status: driver.StatusWorking})
	assert.Equal(t, labelLoading, m.items[0].status)

	m.applyEvent(driver.Event{File: "a.pico", Stage: driver.StageRecognize, Status: driver.StatusAccepted})
	m.applyEvent(driver.Event{File: "b.pico", Stage: driver.StageRecognize, Status: driver.StatusRejected})
	assert.Equal(t, labelAccepted, m.items[0].status)
	assert.Equal(t, labelRejected, m.items[1].status)
	assert.Equal(t, 1, m.accepted)
	assert.Equal(t, 1, m.rejected)

	// события после финала игнорируются
	m.applyEvent(driver.Event{File: "a.pico", Stage: driver.StageLoad, Status: driver.StatusWorking})
	assert.Equal(t, labelAccepted, m.items[0].status)
	assert.Equal(t, 1, m.accepted)
}

func TestApplyEventUnknownFile(t *testing.T) {
	m := newModel("a.pico")
	assert.Nil(t, m.applyEvent(driver.Event{File: "zzz.pico", Status: driver.StatusAccepted}))
	assert.Equal(t, labelQueued, m.items[0].status)
}

func TestCachedLabel(t *testing.T) {
	assert.Equal(t, labelCached, statusLabel(driver.Event{Status: driver.StatusAccepted, Cached: true}))
	assert.Equal(t, labelChecking, statusLabel(driver.Event{Stage: driver.StageRecognize, Status: driver.StatusWorking}))
}

func TestViewListsFiles(t *testing.T) {
	m := newModel("a.pico", "b.pico")
	m.applyEvent(driver.Event{File: "b.pico", Stage: driver.StageRecognize, Status: driver.StatusRejected})
	_, _ = m.Update(doneMsg{})

	view := m.View()
	require.NotEmpty(t, view)
	assert.True(t, strings.Contains(view, "done: pico check (0 accepted, 1 rejected)"))
	assert.Contains(t, view, "a.pico")
	assert.Contains(t, view, labelRejected)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, 10, runewidth.StringWidth(truncate("abcdefghijklmnop", 10)))
	assert.LessOrEqual(t, runewidth.StringWidth(truncate("日本語のファイル名.pico", 9)), 9)
}
