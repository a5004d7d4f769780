package kernel

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleAppliesBuildersInOrder(t *testing.T) {
	k := New()
	var order []string

	m := Module("greeting",
		func(k *Kernel) error { order = append(order, "first"); return nil },
		func(k *Kernel) error { order = append(order, "second"); return nil },
	)

	require.NoError(t, k.AddModules(m))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestModuleStopsAtFirstErrorAndWrapsAsModuleError(t *testing.T) {
	k := New()
	cause := errors.New("boom")
	ran := false

	m := Module("broken",
		func(k *Kernel) error { return cause },
		func(k *Kernel) error { ran = true; return nil },
	)

	err := k.AddModules(m)
	require.Error(t, err)
	var me *ModuleError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, "broken", me.Module)
	assert.ErrorIs(t, err, cause)
	assert.False(t, ran, "builders after the failing one must not run")
}

func TestModuleSkipsNilBuilders(t *testing.T) {
	k := New()
	m := Module("withNils", nil, func(k *Kernel) error { return nil }, nil)
	assert.NoError(t, k.AddModules(m))
}

func TestAddModuleNestsAnotherModule(t *testing.T) {
	k := New()
	inner := Module("inner", AddSingleton("Greeting", FromInstance("hi")))
	outer := Module("outer", AddModule(inner))

	require.NoError(t, k.AddModules(outer))

	v, err := k.Get("Greeting")
	require.NoError(t, err)
	assert.Equal(t, "hi", v)
}

func TestAddModuleNilIsNoop(t *testing.T) {
	k := New()
	outer := Module("outer", AddModule(nil))
	assert.NoError(t, k.AddModules(outer))
}

func TestAddSingletonAddScopedAddTransientRegisterExpectedLifetimes(t *testing.T) {
	k := New()
	m := Module("lifetimes",
		AddSingleton("Single", FromInstance(1)),
		AddScoped("Scope", FromInstance(2)),
		AddTransient("Trans", FromInstance(3)),
	)
	require.NoError(t, k.AddModules(m))

	for _, tc := range []struct {
		id   string
		want Lifetime
	}{
		{"Single", Singleton},
		{"Scope", Scoped},
		{"Trans", Transient},
	} {
		insp := k.Inspect(tc.id)
		require.True(t, insp.Defined, tc.id)
		require.NotNil(t, insp.Lifetime, tc.id)
		assert.Equal(t, tc.want, *insp.Lifetime, tc.id)
	}
}

func TestKernelAddModulesStopsAtFirstErrorAcrossMultipleModules(t *testing.T) {
	k := New()
	cause := errors.New("nope")
	first := Module("first", AddSingleton("OK", FromInstance(true)))
	second := Module("second", func(k *Kernel) error { return cause })
	third := Module("third", AddSingleton("NeverReached", FromInstance(true)))

	err := k.AddModules(first, second, third)
	require.Error(t, err)

	_, getErr := k.Get("OK")
	assert.NoError(t, getErr)

	insp := k.Inspect("NeverReached")
	assert.False(t, insp.Defined)
}
