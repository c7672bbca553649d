package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/sortarr/internal/fixture"
	"github.com/vmunix/sortarr/internal/metadata"
	"github.com/vmunix/sortarr/internal/metadata/mocks"
)

func TestResolveAll_StopRemainingSkipsLookups(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	dir := t.TempDir()

	fixtures := []fixture.Fixture{
		parse(newEntry(t, dir, "The.Show.S02E05.mkv", 100)),
		parse(newEntry(t, dir, "The.Show.S02E06.mkv", 100)),
		parse(newEntry(t, dir, "The.Show.S02E07.mkv", 100)),
	}
	fixtures[2].Common().Enabled = true

	// only the first fixture is looked up
	provider.EXPECT().Search(gomock.Any(), gomock.Any()).Return([]metadata.Match{theShow}, nil).Times(1)
	provider.EXPECT().Episode(gomock.Any(), gomock.Any(), 2, 5).Return(&episode, nil).Times(1)

	got, err := newEngine(provider, newScript(t, "D")).ResolveAll(context.Background(), fixtures, Options{})
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, f := range got {
		assert.Same(t, fixtures[i], f)
		assert.False(t, f.Common().Enabled)
	}
}

func TestResolveAll_KeepsOrderAndEnabledState(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	dir := t.TempDir()

	fixtures := []fixture.Fixture{
		parse(newEntry(t, dir, "The.Show.S02E05.mkv", 100)),
		parse(newEntry(t, dir, "Other.S01E01.mkv", 100)),
	}

	provider.EXPECT().Search(gomock.Any(), metadata.Query{Kind: fixture.KindEpisode, Title: "The Show"}).Return([]metadata.Match{theShow}, nil)
	provider.EXPECT().Episode(gomock.Any(), gomock.Any(), 2, 5).Return(&episode, nil)
	provider.EXPECT().Search(gomock.Any(), metadata.Query{Kind: fixture.KindEpisode, Title: "Other"}).Return(nil, nil)

	got, err := newEngine(provider, newScript(t, "c", "s")).ResolveAll(context.Background(), fixtures, Options{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Common().Enabled)
	assert.False(t, got[1].Common().Enabled)
}

func TestResolveAll_QuitAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	dir := t.TempDir()

	fixtures := []fixture.Fixture{
		parse(newEntry(t, dir, "A.S01E01.mkv", 100)),
		parse(newEntry(t, dir, "B.S01E01.mkv", 100)),
	}
	fixtures[1].Common().Enabled = true

	provider.EXPECT().Search(gomock.Any(), gomock.Any()).Return(nil, nil).Times(1)

	op := newScript(t, "Q")
	got, err := newEngine(provider, op).ResolveAll(context.Background(), fixtures, Options{})
	assert.ErrorIs(t, err, ErrAborted)
	assert.True(t, IsAbort(err))
	require.Len(t, got, 2)
	assert.False(t, got[1].Common().Enabled)
	assert.True(t, op.reported("Exiting per user request"))
}

func TestResolveAll_ModeOverrideCarriesForward(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	dir := t.TempDir()

	fixtures := []fixture.Fixture{
		parse(newEntry(t, dir, "First.Film.S01E01.mkv", 100)),
		parse(newEntry(t, dir, "Second.Film.S01E02.mkv", 100)),
	}

	var kinds []fixture.Kind
	provider.EXPECT().Search(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q metadata.Query) ([]metadata.Match, error) {
			kinds = append(kinds, q.Kind)
			return nil, nil
		}).Times(3)

	// switch the first item to movie mode, then skip both
	got, err := newEngine(provider, newScript(t, "m", "s", "s")).ResolveAll(context.Background(), fixtures, Options{})
	require.NoError(t, err)
	assert.Equal(t, []fixture.Kind{fixture.KindEpisode, fixture.KindMovie, fixture.KindMovie}, kinds)
	assert.Equal(t, fixture.KindMovie, got[0].Kind())
	assert.Equal(t, fixture.KindMovie, got[1].Kind())
}

func TestResolveAll_ForcedMode(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)

	provider.EXPECT().
		Search(gomock.Any(), metadata.Query{Kind: fixture.KindMovie, Title: "Show Name S01E02"}).
		Return(nil, nil)

	fixtures := []fixture.Fixture{parse(newEntry(t, t.TempDir(), "Show.Name.S01E02.mkv", 100))}
	got, err := newEngine(provider, newScript(t, "s")).ResolveAll(context.Background(), fixtures, Options{Mode: fixture.ModeMovie})
	require.NoError(t, err)
	assert.Equal(t, fixture.KindMovie, got[0].Kind())
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "continue", Continue.String())
	assert.Equal(t, "restart", Restart.String())
	assert.Equal(t, "accepted", Accepted.String())
	assert.Equal(t, "skipped", Skipped.String())
	assert.Equal(t, "aborted", Aborted.String())
}

func TestShiftEnd(t *testing.T) {
	assert.Zero(t, shiftEnd(1, 0, 3))
	assert.Equal(t, 4, shiftEnd(1, 2, 3))
}
