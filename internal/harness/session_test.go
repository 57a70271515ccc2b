package harness

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gobench/bench"
	"gobench/internal/config"
)

// suite builds a registry whose definitions appear to come from bench files
// under dir, creating the files on disk so discovery can walk them.
type suite struct {
	t   *testing.T
	dir string
	r   *bench.Registry
}

func newSuite(t *testing.T) *suite {
	return &suite{t: t, dir: t.TempDir(), r: bench.NewRegistry()}
}

func (s *suite) addFile(name string) string {
	path := filepath.Join(s.dir, name)
	require.NoError(s.t, os.WriteFile(path, []byte("package benchmarks\n"), 0644))
	return path
}

func (s *suite) cfg() config.Config {
	cfg := config.Default()
	cfg.Benchpath = s.dir
	cfg.Repeat = 2
	return cfg
}

func TestSessionEndToEnd(t *testing.T) {
	s := newSuite(t)
	file := s.addFile("bench_demo.go")

	calls := 0
	s.r.RegisterFrom(file, "BenchMyFunc", func(p bench.Params) { calls += p.Int("a") },
		bench.Repeat(3), bench.Number(1), bench.Grid("a", 1, 2))

	var out bytes.Buffer
	sess := NewSession(s.cfg(), s.r, &out)
	meta := map[string]any{"commit": "abc123", "platform": "test"}

	table, err := sess.Run(Options{}, meta)
	require.NoError(t, err)
	require.Len(t, table.Records, 2)

	// 3 trials of 1 call per variant: a=1 contributes 3, a=2 contributes 6.
	assert.Equal(t, 9, calls)

	assert.Equal(t, `{"a":1}`, *table.Records[0].Parameters)
	assert.Equal(t, `{"a":2}`, *table.Records[1].Parameters)
	for _, rec := range table.Records {
		assert.Equal(t, "MyFunc", rec.Function)
		assert.Equal(t, 3, rec.Repeat)
		assert.Equal(t, 1, rec.Number)
		assert.Equal(t, meta, rec.Meta)
	}

	assert.Contains(t, out.String(), "starting benchmark session")
	assert.Contains(t, out.String(), "MyFunc")
}

func TestSessionSkippedProducesNothing(t *testing.T) {
	s := newSuite(t)
	file := s.addFile("bench_demo.go")

	ran := false
	s.r.RegisterFrom(file, "BenchSkipped", func(p bench.Params) { ran = true },
		bench.SkipIf(true, "unsupported platform"), bench.Grid("a", 1, 2))

	var out bytes.Buffer
	sess := NewSession(s.cfg(), s.r, &out)

	_, err := sess.Run(Options{}, nil)
	assert.True(t, errors.Is(err, ErrNoBenchmarks))
	assert.False(t, ran)
	// The identity still shows up in the session output, with its reason.
	assert.Contains(t, out.String(), "Skipped")
	assert.Contains(t, out.String(), "unsupported platform")
}

func TestSessionSkipDoesNotHideOthers(t *testing.T) {
	s := newSuite(t)
	file := s.addFile("bench_demo.go")

	s.r.RegisterFrom(file, "BenchSkipped", func(p bench.Params) {}, bench.SkipIf(true, ""))
	s.r.RegisterFrom(file, "BenchLive", func(p bench.Params) {}, bench.Repeat(2))

	sess := NewSession(s.cfg(), s.r, &bytes.Buffer{})
	table, err := sess.Run(Options{}, nil)
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "Live", table.Records[0].Function)
}

func TestSessionKeywordFilter(t *testing.T) {
	s := newSuite(t)
	file := s.addFile("bench_demo.go")

	s.r.RegisterFrom(file, "BenchMatmul", func(p bench.Params) {})
	s.r.RegisterFrom(file, "BenchGemmSmall", func(p bench.Params) {})

	sess := NewSession(s.cfg(), s.r, &bytes.Buffer{})

	// Anchored at the start of the identity.
	table, err := sess.Run(Options{Keyword: "Ma"}, nil)
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "Matmul", table.Records[0].Function)

	// Case-sensitive: lowercase matches nothing.
	_, err = sess.Run(Options{Keyword: "ma"}, nil)
	assert.True(t, errors.Is(err, ErrNoBenchmarks))

	// Not a substring match: "mall" does not hit GemmSmall.
	_, err = sess.Run(Options{Keyword: "mall"}, nil)
	assert.True(t, errors.Is(err, ErrNoBenchmarks))
}

func TestSessionInvalidKeyword(t *testing.T) {
	s := newSuite(t)
	sess := NewSession(s.cfg(), s.r, &bytes.Buffer{})

	_, err := sess.Run(Options{Keyword: "("}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keyword")
}

func TestSessionBenchpathOverride(t *testing.T) {
	s := newSuite(t)
	other := t.TempDir()
	elsewhere := filepath.Join(other, "bench_elsewhere.go")
	require.NoError(t, os.WriteFile(elsewhere, []byte("package benchmarks\n"), 0644))

	s.r.RegisterFrom(elsewhere, "BenchElsewhere", func(p bench.Params) {})

	sess := NewSession(s.cfg(), s.r, &bytes.Buffer{})

	// Default path has nothing registered.
	_, err := sess.Run(Options{}, nil)
	assert.True(t, errors.Is(err, ErrNoBenchmarks))

	table, err := sess.Run(Options{Benchpath: other}, nil)
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "Elsewhere", table.Records[0].Function)
}

func TestSessionPanicAbortsRun(t *testing.T) {
	s := newSuite(t)
	file := s.addFile("bench_demo.go")

	s.r.RegisterFrom(file, "BenchBroken", func(p bench.Params) { panic("boom") })
	s.r.RegisterFrom(file, "BenchNever", func(p bench.Params) {})

	sess := NewSession(s.cfg(), s.r, &bytes.Buffer{})
	_, err := sess.Run(Options{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Broken")
}

func TestSessionMissingBenchpath(t *testing.T) {
	cfg := config.Default()
	cfg.Benchpath = filepath.Join(t.TempDir(), "missing")

	sess := NewSession(cfg, bench.NewRegistry(), &bytes.Buffer{})
	_, err := sess.Run(Options{}, nil)
	assert.Error(t, err)
}
