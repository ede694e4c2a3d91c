package resources

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReleaseAllReverseOrder(t *testing.T) {
	var a Arena
	var order []string
	for _, n := range []string{"a", "b", "c"} {
		n := n
		require.NoError(t, a.Track(n, ReleaseFunc(func() error {
			order = append(order, n)
			return nil
		})))
	}
	assert.Equal(t, []string{"a", "b", "c"}, a.Names())
	require.NoError(t, a.ReleaseAll())
	assert.Equal(t, []string{"c", "b", "a"}, order)
	assert.Zero(t, a.Len())
	require.NoError(t, a.ReleaseAll())
	assert.Len(t, order, 3)
}

func TestReleaseAllJoinsErrors(t *testing.T) {
	var a Arena
	boom := errors.New("boom")
	_ = a.Track("bad", ReleaseFunc(func() error { return boom }))
	released := false
	_ = a.Track("good", ReleaseFunc(func() error { released = true; return nil }))
	err := a.ReleaseAll()
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "release bad")
	assert.True(t, released)
}

func TestTrackAfterReleaseFreesImmediately(t *testing.T) {
	var a Arena
	require.NoError(t, a.ReleaseAll())
	freed := false
	require.NoError(t, a.Track("late", ReleaseFunc(func() error { freed = true; return nil })))
	assert.True(t, freed)
	assert.Zero(t, a.Len())
}
