package runner

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/sortarr/internal/fixture"
	"github.com/vmunix/sortarr/internal/importer"
	"github.com/vmunix/sortarr/internal/metadata"
	"github.com/vmunix/sortarr/internal/metadata/mocks"
	"github.com/vmunix/sortarr/internal/resolver"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingOperator records output and fails the test on any prompt.
type recordingOperator struct {
	t       *testing.T
	reports []string
	tables  [][]string
}

func (o *recordingOperator) Prompt(question, def string) string {
	o.t.Fatalf("unexpected prompt %q", question)
	return def
}

func (o *recordingOperator) Confirm(question string, def bool) bool {
	o.t.Fatalf("unexpected confirm %q", question)
	return def
}

func (o *recordingOperator) Table(headers []string, rows [][]string) {
	o.tables = append(o.tables, headers)
}

func (o *recordingOperator) Report(level slog.Level, msg string) {
	o.reports = append(o.reports, msg)
}

func (o *recordingOperator) reported(substr string) bool {
	for _, r := range o.reports {
		if strings.Contains(r, substr) {
			return true
		}
	}
	return false
}

type resolverFunc func(ctx context.Context, fixtures []fixture.Fixture, opts resolver.Options) ([]fixture.Fixture, error)

func (f resolverFunc) ResolveAll(ctx context.Context, fixtures []fixture.Fixture, opts resolver.Options) ([]fixture.Fixture, error) {
	return f(ctx, fixtures, opts)
}

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
}

func date(s string) time.Time {
	d, _ := time.Parse(time.DateOnly, s)
	return d
}

func TestRun_EndToEnd(t *testing.T) {
	in, out := t.TempDir(), filepath.Join(t.TempDir(), "library")
	src := filepath.Join(in, "The.Show.S02E05.720p-GRP", "The.Show.S02E05.Episode.Title.720p.HDTV.x264-GRP.mkv")
	writeFile(t, src, 100)
	writeFile(t, filepath.Join(in, "The.Show.S02E05.720p-GRP", "release.nfo"), 10)
	writeFile(t, filepath.Join(in, "notes.txt"), 10)

	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	show := metadata.Match{Kind: fixture.KindEpisode, ID: 10, Title: "The Show", Date: date("2014-09-01"), Country: "US", Score: 1}
	ep := metadata.Match{Kind: fixture.KindEpisode, ID: 99, Title: "Episode Title", Date: date("2015-03-01"), Season: 2, Episode: 5}
	provider.EXPECT().
		Search(gomock.Any(), metadata.Query{Kind: fixture.KindEpisode, Title: "The Show"}).
		Return([]metadata.Match{show}, nil)
	provider.EXPECT().Episode(gomock.Any(), show, 2, 5).Return(&ep, nil)

	op := &recordingOperator{t: t}
	engine := resolver.New(provider, fixture.NewParser(), op, testLogger(),
		resolver.WithAncillarySize(10), resolver.WithPause(0))
	cfg := Config{
		Inputs:         []string{in},
		Output:         out,
		Extensions:     []string{"mkv"},
		PreExtensions:  []string{"nfo"},
		PostExtensions: []string{"txt"},
		Resolve:        resolver.Options{AutoAccept: true},
	}

	sum, err := NewRunner(cfg, engine, importer.NewPlacer(nil, testLogger()), op, testLogger()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Scanned)
	assert.Equal(t, 1, sum.Enabled)
	require.NotNil(t, sum.Report)
	assert.Equal(t, 1, sum.Report.Committed)
	assert.Len(t, sum.PreClean.Removed, 1)

	assert.FileExists(t, filepath.Join(out, "The Show", "Season 2", "The Show - S02E05 - Episode Title.mkv"))
	assert.NoFileExists(t, src)
	assert.NoFileExists(t, filepath.Join(in, "notes.txt"))
	assert.NoDirExists(t, filepath.Join(in, "The.Show.S02E05.720p-GRP"))
	assert.DirExists(t, in)

	assert.Equal(t, []string{"Runtime Configuration", "Value"}, op.tables[0])
	assert.True(t, op.reported("Placed 1 file(s)"))
	assert.Equal(t, "scanned 1 file(s), 1 enabled, 1 placed", sum.Describe())
}

func TestRun_QuitPlacesNothing(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	src := filepath.Join(in, "Heat.1995.mkv")
	writeFile(t, src, 100)
	writeFile(t, filepath.Join(in, "info.nfo"), 10)

	res := resolverFunc(func(_ context.Context, fixtures []fixture.Fixture, _ resolver.Options) ([]fixture.Fixture, error) {
		fixtures[0].Common().Enabled = true
		return fixtures, resolver.ErrAborted
	})
	op := &recordingOperator{t: t}
	cfg := Config{Inputs: []string{in}, Output: out, PostExtensions: []string{"nfo"}}

	sum, err := NewRunner(cfg, res, importer.NewPlacer(nil, testLogger()), op, testLogger()).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, sum.Aborted)
	assert.Nil(t, sum.Report)
	assert.FileExists(t, src)
	assert.FileExists(t, filepath.Join(in, "info.nfo"))
	assert.True(t, op.reported("nothing was placed"))
}

func TestRun_PassesModeToParserAndResolver(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(in, "Some.Documentary.mkv"), 100)

	var seen []fixture.Fixture
	var opts resolver.Options
	res := resolverFunc(func(_ context.Context, fixtures []fixture.Fixture, o resolver.Options) ([]fixture.Fixture, error) {
		seen, opts = fixtures, o
		return fixtures, nil
	})
	cfg := Config{Inputs: []string{in}, Output: out, Resolve: resolver.Options{Mode: fixture.ModeMovie}}

	sum, err := NewRunner(cfg, res, importer.NewPlacer(nil, testLogger()), &recordingOperator{t: t}, testLogger()).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, seen, 1)
	assert.Equal(t, fixture.KindMovie, seen[0].Kind())
	assert.Equal(t, "Some Documentary", seen[0].Common().Name)
	assert.Equal(t, fixture.ModeMovie, opts.Mode)
	assert.Equal(t, 0, sum.Enabled)
	assert.Empty(t, sum.Report.Placements)
}

func TestRun_NoMediaFiles(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(in, "readme.txt"), 10)

	res := resolverFunc(func(context.Context, []fixture.Fixture, resolver.Options) ([]fixture.Fixture, error) {
		t.Fatal("resolver called without fixtures")
		return nil, nil
	})
	op := &recordingOperator{t: t}
	cfg := Config{Inputs: []string{in}, Output: out, Extensions: []string{"mkv"}}

	sum, err := NewRunner(cfg, res, importer.NewPlacer(nil, testLogger()), op, testLogger()).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, sum.Scanned)
	assert.True(t, op.reported("No media files found"))
}

func TestRun_InvalidPaths(t *testing.T) {
	valid := t.TempDir()
	junk := filepath.Join(valid, "junk.nfo")
	writeFile(t, junk, 1)
	outFile := filepath.Join(t.TempDir(), "file")
	writeFile(t, outFile, 1)

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"no inputs", Config{Output: t.TempDir()}, ErrNoInput},
		{"missing input", Config{Inputs: []string{valid, filepath.Join(valid, "nope")}, Output: t.TempDir()}, ErrNoInput},
		{"no output", Config{Inputs: []string{valid}}, ErrNoOutput},
		{"output is a file", Config{Inputs: []string{valid}, Output: outFile}, ErrNoOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.PreExtensions = []string{"nfo"}
			r := NewRunner(tt.cfg, nil, importer.NewPlacer(nil, testLogger()), &recordingOperator{t: t}, testLogger())
			_, err := r.Run(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.FileExists(t, junk)
		})
	}
}

func TestRun_CancelledBeforeResolve(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(in, "Heat.1995.mkv"), 100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := Config{Inputs: []string{in}, Output: out}
	_, err := NewRunner(cfg, nil, importer.NewPlacer(nil, testLogger()), &recordingOperator{t: t}, testLogger()).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// scriptedOperator answers prompts in order. An empty answer picks the default.
type scriptedOperator struct {
	recordingOperator
	answers []string
}

func (o *scriptedOperator) next(question string) string {
	o.t.Helper()
	if len(o.answers) == 0 {
		o.t.Fatalf("unexpected prompt %q", question)
	}
	a := o.answers[0]
	o.answers = o.answers[1:]
	return a
}

func (o *scriptedOperator) Prompt(question, def string) string {
	if a := o.next(question); a != "" {
		return a
	}
	return def
}

func (o *scriptedOperator) Confirm(question string, def bool) bool {
	switch o.next(question) {
	case "y":
		return true
	case "n":
		return false
	default:
		return def
	}
}

func TestRun_DirectoryRemoveKeepsInputRoot(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	other := filepath.Join(in, "Other.Show.S01E01.mkv")
	sample := filepath.Join(in, "sample.mkv")
	writeFile(t, other, 100)
	writeFile(t, sample, 5)

	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	provider.EXPECT().Search(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)

	// skip the episode, then remove the sample choosing the whole directory
	op := &scriptedOperator{recordingOperator: recordingOperator{t: t}, answers: []string{"s", "", "y", ""}}
	engine := resolver.New(provider, fixture.NewParser(), op, testLogger(),
		resolver.WithAncillarySize(10), resolver.WithPause(0))
	cfg := Config{Inputs: []string{in}, Output: out, Extensions: []string{"mkv"}, PostExtensions: []string{"nfo"}}

	sum, err := NewRunner(cfg, engine, importer.NewPlacer(nil, testLogger()), op, testLogger()).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Scanned)
	assert.DirExists(t, in)
	assert.FileExists(t, other)
	assert.NoFileExists(t, sample)
	assert.True(t, op.reported("removing the file only"))
	assert.Empty(t, op.answers)
}

func TestRun_PostCleanupToleratesMissingInput(t *testing.T) {
	base, out := t.TempDir(), t.TempDir()
	gone := filepath.Join(base, "gone")
	kept := filepath.Join(base, "kept")
	writeFile(t, filepath.Join(gone, "Heat.1995.mkv"), 100)
	writeFile(t, filepath.Join(kept, "Heat.1995.mkv"), 100)
	writeFile(t, filepath.Join(kept, "info.nfo"), 10)

	res := resolverFunc(func(_ context.Context, fixtures []fixture.Fixture, _ resolver.Options) ([]fixture.Fixture, error) {
		require.NoError(t, os.RemoveAll(gone))
		return fixtures, nil
	})
	cfg := Config{Inputs: []string{gone, kept}, Output: out, Extensions: []string{"mkv"}, PostExtensions: []string{"nfo"}}

	sum, err := NewRunner(cfg, res, importer.NewPlacer(nil, testLogger()), &recordingOperator{t: t}, testLogger()).Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, sum.PostClean.Removed, 1)
	assert.NoFileExists(t, filepath.Join(kept, "info.nfo"))
}
