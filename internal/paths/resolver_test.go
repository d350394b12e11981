package paths

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fxi-data/internal/cache"
	"fxi-data/internal/model"
)

var day = time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

func TestResolveLayout(t *testing.T) {
	r := New("/data", cache.New[Key, string](cache.DefaultCapacity))

	tests := []struct {
		kind Kind
		want string
	}{
		{DirDate, filepath.Join("2024", "03", "05")},
		{SourceDir, filepath.Join("/data", "history", "dukascopy", "EURUSD", "2024", "03", "05")},
		{TargetDir, filepath.Join("/data", "history", "myfx", "EURUSD", "2024", "03", "05")},
		{SourceRaw, filepath.Join("/data", "history", "dukascopy", "EURUSD", "2024", "03", "05", "M1.bin")},
		{SourceCompressed, filepath.Join("/data", "history", "dukascopy", "EURUSD", "2024", "03", "05", "M1.zst")},
		{TargetRaw, filepath.Join("/data", "history", "myfx", "EURUSD", "2024", "03", "05", "M1.bin")},
		{TargetCompressed, filepath.Join("/data", "history", "myfx", "EURUSD", "2024", "03", "05", "M1.zst")},
		{TargetSymbolDir, filepath.Join("/data", "history", "myfx", "EURUSD")},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			got, err := r.Resolve(tt.kind, "EURUSD", day)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveInvalidArguments(t *testing.T) {
	r := New("/data", nil)

	_, err := r.Resolve(Kind(99), "EURUSD", day)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	_, err = r.Resolve(SourceRaw, "", day)
	assert.ErrorIs(t, err, model.ErrInvalidArgument)

	_, err = r.Resolve(TargetRaw, "EURUSD", time.Time{})
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
}

func TestResolveReusesSubResolutions(t *testing.T) {
	r := New("/data", cache.New[Key, string](cache.DefaultCapacity))

	_, err := r.Resolve(SourceRaw, "EURUSD", day)
	require.NoError(t, err)
	assert.Equal(t, 3, r.computed) // dirDate, sourceDir, source.raw

	_, err = r.Resolve(TargetRaw, "EURUSD", day)
	require.NoError(t, err)
	assert.Equal(t, 5, r.computed, "dirDate must come from cache")

	_, err = r.Resolve(SourceRaw, "EURUSD", day)
	require.NoError(t, err)
	assert.Equal(t, 5, r.computed)
}

func TestResolveRecomputesEvictedKeys(t *testing.T) {
	c := cache.New[Key, string](cache.DefaultCapacity)
	r := New("/data", c)

	days := make([]time.Time, 200)
	for i := range days {
		days[i] = day.AddDate(0, 0, i)
		_, err := r.Resolve(DirDate, "", days[i])
		require.NoError(t, err)
	}
	assert.Equal(t, 128, c.Len())
	assert.Equal(t, 200, r.computed)

	// Recent keys are served from cache.
	got, err := r.Resolve(DirDate, "", days[199])
	require.NoError(t, err)
	assert.Equal(t, 200, r.computed)
	assert.Equal(t, days[199].Format("2006/01/02"), filepath.ToSlash(got))

	// Evicted keys are recomputed with the same result.
	got, err = r.Resolve(DirDate, "", days[0])
	require.NoError(t, err)
	assert.Equal(t, 201, r.computed)
	assert.Equal(t, "2024/03/05", filepath.ToSlash(got))
}

func TestResolveWithoutCache(t *testing.T) {
	cached := New("/data", cache.New[Key, string](4))
	plain := New("/data", nil)
	for i := 0; i < 10; i++ {
		d := day.AddDate(0, 0, i)
		a, err := cached.Resolve(TargetRaw, "AUDFX6", d)
		require.NoError(t, err)
		b, err := plain.Resolve(TargetRaw, "AUDFX6", d)
		require.NoError(t, err)
		assert.Equal(t, b, a)
	}
}
