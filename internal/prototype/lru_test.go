package prototype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRUGetSet(t *testing.T) {
	c := newLRU(2)

	a := &ServicePrototype{ClassName: "A"}
	b := &ServicePrototype{ClassName: "B"}

	evicted := c.set("A", a)
	assert.Empty(t, evicted)
	evicted = c.set("B", b)
	assert.Empty(t, evicted)

	got, ok := c.get("A")
	assert.True(t, ok)
	assert.Same(t, a, got)
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := newLRU(2)

	c.set("A", &ServicePrototype{ClassName: "A"})
	c.set("B", &ServicePrototype{ClassName: "B"})

	// Touch A so B becomes the least-recently-used entry.
	_, _ = c.get("A")

	evicted := c.set("C", &ServicePrototype{ClassName: "C"})
	assert.Equal(t, []string{"B"}, evicted)

	_, ok := c.get("B")
	assert.False(t, ok)

	_, ok = c.get("A")
	assert.True(t, ok)
	_, ok = c.get("C")
	assert.True(t, ok)
}

func TestLRUSetCapacityShrinksImmediately(t *testing.T) {
	c := newLRU(4)
	c.set("A", &ServicePrototype{ClassName: "A"})
	c.set("B", &ServicePrototype{ClassName: "B"})
	c.set("C", &ServicePrototype{ClassName: "C"})

	c.setCapacity(1)
	assert.Equal(t, 1, c.size())

	_, ok := c.get("C")
	assert.True(t, ok, "most recently used entry should survive the shrink")
}

func TestLRUClear(t *testing.T) {
	c := newLRU(4)
	c.set("A", &ServicePrototype{ClassName: "A"})
	c.clear()

	assert.Equal(t, 0, c.size())
	_, ok := c.get("A")
	assert.False(t, ok)
}

func TestLRUUpdateExistingKeyDoesNotEvict(t *testing.T) {
	c := newLRU(1)
	first := &ServicePrototype{ClassName: "A", IsInstantiable: true}
	second := &ServicePrototype{ClassName: "A", IsInstantiable: false}

	c.set("A", first)
	evicted := c.set("A", second)

	assert.Empty(t, evicted)
	got, ok := c.get("A")
	assert.True(t, ok)
	assert.Same(t, second, got)
}
