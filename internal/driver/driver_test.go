package driver_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pico/internal/diag"
	"pico/internal/driver"
	"pico/internal/fault"
	"pico/internal/lexer"
	"pico/internal/observ"
	"pico/internal/token"
)

const (
	goodProgram = "begin declare x, | x := 1; end\n"
	badProgram  = "begin declare x, | x := 1 end\n"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	return dir
}

func TestListFilesSortedAndFiltered(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"b.pico":       goodProgram,
		"a.pico":       goodProgram,
		"notes.txt":    "x",
		"sub/c.pico":   goodProgram,
		"sub/d.pico.b": goodProgram,
	})
	files, err := driver.ListFiles(dir, "")
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, filepath.Join(dir, "a.pico"), files[0])
	assert.Equal(t, filepath.Join(dir, "b.pico"), files[1])
	assert.Equal(t, filepath.Join(dir, "sub", "c.pico"), files[2])
}

func TestCheckDirectory(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"good.pico": goodProgram,
		"bad.pico":  badProgram,
	})
	res, err := driver.Check(context.Background(), dir, driver.Options{Jobs: 2})
	require.NoError(t, err)
	require.Len(t, res.Files, 2)
	assert.Equal(t, 1, res.Rejected())
	assert.False(t, res.OK())

	bad := res.Files[0]
	assert.True(t, strings.HasSuffix(bad.Path, "bad.pico"))
	assert.False(t, bad.Accepted)
	require.NotNil(t, bad.Err)
	assert.ErrorIs(t, bad.Err, fault.ErrMismatch)
	assert.Equal(t, token.StatementEnd, bad.Err.Expected)
	assert.Equal(t, token.End, bad.Err.Actual)

	assert.True(t, res.Files[1].Accepted)
	assert.Nil(t, res.Files[1].Err)

	items := res.Bag.Items()
	require.Len(t, items, 1)
	assert.Equal(t, diag.SynMismatch, items[0].Code)
	assert.Equal(t, diag.SevError, items[0].Severity)
	assert.Equal(t, "Expected STATEMENT_END but received END at 1:27", items[0].Message)
	assert.Equal(t, uint32(26), items[0].Primary.Start)
	assert.Equal(t, uint32(29), items[0].Primary.End)
}

func TestCheckEnginesAgree(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.pico": goodProgram,
		"b.pico": badProgram,
		"c.pico": "begin declare | x := 1 ? 2; end",
		"d.pico": "begin declare | end end",
	})
	hand, err := driver.Check(context.Background(), dir, driver.Options{Engine: lexer.EngineHand})
	require.NoError(t, err)
	dfa, err := driver.Check(context.Background(), dir, driver.Options{Engine: lexer.EngineAutomaton})
	require.NoError(t, err)
	require.Len(t, dfa.Files, len(hand.Files))
	for i := range hand.Files {
		assert.Equal(t, hand.Files[i].Accepted, dfa.Files[i].Accepted, hand.Files[i].Path)
		assert.Equal(t, hand.Files[i].Err, dfa.Files[i].Err, hand.Files[i].Path)
	}
}

func TestCheckMissingFileIsRejected(t *testing.T) {
	dir := writeFiles(t, map[string]string{"ok.pico": goodProgram})
	missing := filepath.Join(dir, "missing.pico")

	res, err := driver.CheckPaths(context.Background(), []string{filepath.Join(dir, "ok.pico"), missing}, dir, driver.Options{})
	require.NoError(t, err)
	require.Len(t, res.Files, 2)
	assert.True(t, res.Files[0].Accepted)
	assert.False(t, res.Files[1].Accepted)
	assert.Error(t, res.Files[1].LoadErr)
	assert.Nil(t, res.Files[1].Err)

	items := res.Bag.Items()
	require.Len(t, items, 1)
	assert.Equal(t, diag.IOLoadFileError, items[0].Code)
	assert.Contains(t, items[0].Message, "missing.pico")
}

func TestCheckReader(t *testing.T) {
	res, err := driver.CheckReader(context.Background(), "<stdin>", strings.NewReader("begin declare | end"), driver.Options{})
	require.NoError(t, err)
	assert.True(t, res.OK())

	res, err = driver.CheckReader(context.Background(), "<stdin>", strings.NewReader("begin declare | end 1"), driver.Options{})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.ErrorIs(t, res.Files[0].Err, fault.ErrTrailingInput)
	assert.Equal(t, diag.SynTrailingInput, res.Bag.Items()[0].Code)
}

func TestCheckUsesCache(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"good.pico": goodProgram,
		"bad.pico":  badProgram,
	})
	cache, err := driver.NewDiskCache(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)

	opts := driver.Options{Cache: cache}
	first, err := driver.Check(context.Background(), dir, opts)
	require.NoError(t, err)
	for _, f := range first.Files {
		assert.False(t, f.Cached, f.Path)
	}

	second, err := driver.Check(context.Background(), dir, opts)
	require.NoError(t, err)
	for i, f := range second.Files {
		assert.True(t, f.Cached, f.Path)
		assert.Equal(t, first.Files[i].Accepted, f.Accepted)
		assert.Equal(t, first.Files[i].Err, f.Err)
	}
	assert.Equal(t, first.Bag.Items()[0].Message, second.Bag.Items()[0].Message)

	// другой движок не читает чужие вердикты
	third, err := driver.Check(context.Background(), dir, driver.Options{Cache: cache, Engine: lexer.EngineAutomaton})
	require.NoError(t, err)
	assert.False(t, third.Files[0].Cached)

	require.NoError(t, cache.DropAll())
	fourth, err := driver.Check(context.Background(), dir, opts)
	require.NoError(t, err)
	assert.False(t, fourth.Files[0].Cached)
}

func TestProgressEvents(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.pico": goodProgram,
		"b.pico": badProgram,
	})
	ch := make(chan driver.Event, 64)
	_, err := driver.Check(context.Background(), dir, driver.Options{Progress: driver.ChannelSink{Ch: ch}})
	require.NoError(t, err)
	close(ch)

	final := map[string]driver.Status{}
	for ev := range ch {
		if ev.Status.Finished() {
			final[filepath.Base(ev.File)] = ev.Status
		}
	}
	assert.Equal(t, driver.StatusAccepted, final["a.pico"])
	assert.Equal(t, driver.StatusRejected, final["b.pico"])
}

func TestTimingsDiagnostic(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.pico": goodProgram})
	res, err := driver.Check(context.Background(), dir, driver.Options{Timer: observ.NewTimer(), Timings: true})
	require.NoError(t, err)

	items := res.Bag.Items()
	require.Len(t, items, 1)
	assert.Equal(t, diag.ObsTimings, items[0].Code)
	assert.Equal(t, diag.SevInfo, items[0].Severity)
	require.Len(t, items[0].Notes, 1)
	assert.Contains(t, items[0].Notes[0].Msg, `"recognize"`)
	assert.Contains(t, items[0].Notes[0].Msg, `"load"`)
	assert.False(t, res.Bag.HasErrors())
}

func TestTokenize(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.pico": "begin x := 1 ? end"})
	res, err := driver.Tokenize(context.Background(), filepath.Join(dir, "a.pico"), driver.Options{})
	require.NoError(t, err)
	require.Len(t, res.Tokens, 4)
	assert.Equal(t, token.Begin, res.Tokens[0].Kind)
	assert.Equal(t, token.NatNumber, res.Tokens[3].Kind)
	require.NotNil(t, res.Err)
	assert.ErrorIs(t, res.Err, fault.ErrNoMatchingLexeme)
	assert.Equal(t, "?", res.Err.Lexeme)
	assert.Equal(t, diag.LexNoMatchingLexeme, res.Bag.Items()[0].Code)
}
