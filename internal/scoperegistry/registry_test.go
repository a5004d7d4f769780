package scoperegistry

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryHasGetSet(t *testing.T) {
	r := New()
	assert.False(t, r.Has("Config"))

	published, won := r.Set("Config", "prod")
	assert.True(t, won)
	assert.Equal(t, "prod", published)

	assert.True(t, r.Has("Config"))
	v, ok := r.Get("Config")
	require.True(t, ok)
	assert.Equal(t, "prod", v)
}

func TestRegistrySetFirstWriterWins(t *testing.T) {
	r := New()

	published1, won1 := r.Set("Config", "first")
	published2, won2 := r.Set("Config", "second")

	assert.True(t, won1)
	assert.False(t, won2)
	assert.Equal(t, "first", published1)
	assert.Equal(t, "first", published2, "a losing writer must observe the winning value, not its own")
}

func TestRegistrySetIsRaceSafe(t *testing.T) {
	r := New()
	var wg sync.WaitGroup
	wins := make([]bool, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, won := r.Set("Singleton", i)
			wins[i] = won
		}(i)
	}
	wg.Wait()

	winCount := 0
	for _, w := range wins {
		if w {
			winCount++
		}
	}
	assert.Equal(t, 1, winCount, "exactly one concurrent Set call may win")
}

func TestRegistryClear(t *testing.T) {
	r := New()
	r.Set("Config", "prod")
	r.Clear()

	assert.False(t, r.Has("Config"))
}

func TestFrameGetFallsThroughToParent(t *testing.T) {
	parent := NewFrame(nil)
	require.NoError(t, parent.Set("Request", "parent-request"))

	child := NewFrame(parent)
	v, ok := child.Get("Request")
	require.True(t, ok)
	assert.Equal(t, "parent-request", v)
}

func TestFrameSetWritesOnlyTopFrame(t *testing.T) {
	parent := NewFrame(nil)
	child := NewFrame(parent)
	require.NoError(t, child.Set("Request", "child-request"))

	_, ok := parent.Get("Request")
	assert.False(t, ok, "a child frame's Set must not leak into its parent")
}

func TestFrameEndReturnsReverseConstructionOrder(t *testing.T) {
	f := NewFrame(nil)
	require.NoError(t, f.Set("A", "a"))
	require.NoError(t, f.Set("B", "b"))
	require.NoError(t, f.Set("C", "c"))

	instances := f.End()
	assert.Equal(t, []any{"c", "b", "a"}, instances)
}

func TestFrameEndOnAlreadyEndedFrameIsNoop(t *testing.T) {
	f := NewFrame(nil)
	require.NoError(t, f.Set("A", "a"))

	first := f.End()
	second := f.End()

	assert.Equal(t, []any{"a"}, first)
	assert.Nil(t, second)
}

func TestFrameSetAfterEndErrors(t *testing.T) {
	f := NewFrame(nil)
	f.End()

	err := f.Set("A", "a")
	assert.Error(t, err)
}

func TestFrameSetOnNilFrameErrors(t *testing.T) {
	var f *Frame
	err := f.Set("A", "a")
	assert.ErrorIs(t, err, ErrNoActiveScope)
}

func TestFrameSetOverwritingKeyDoesNotDuplicateOrder(t *testing.T) {
	f := NewFrame(nil)
	require.NoError(t, f.Set("A", "first"))
	require.NoError(t, f.Set("A", "second"))

	instances := f.End()
	assert.Equal(t, []any{"second"}, instances)
}
