package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecoratorsApplyInRegistrationOrderBeforeLifetimeStorage(t *testing.T) {
	eng, st, _, _ := newTestEngine()
	st.Instance("Greeting", "hello")

	st.Decorate("Greeting", func(instance, container any) (any, error) {
		return instance.(string) + ", world", nil
	})
	st.Decorate("Greeting", func(instance, container any) (any, error) {
		return instance.(string) + "!", nil
	})

	result, err := eng.Resolve(NewRootContext("Greeting", nil, nil, nil), nil)
	require.NoError(t, err)
	assert.Equal(t, "hello, world!", result)
}

func TestDecoratorErrorSurfacesAsFactoryThrew(t *testing.T) {
	eng, st, _, _ := newTestEngine()
	st.Instance("Greeting", "hello")
	st.Decorate("Greeting", func(instance, container any) (any, error) {
		return nil, assertErr
	})

	_, err := eng.Resolve(NewRootContext("Greeting", nil, nil, nil), nil)
	require.Error(t, err)
	var re *ResolutionError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, KindFactoryThrew, re.Kind)
}

var assertErr = &decoratorBoom{}

type decoratorBoom struct{}

func (*decoratorBoom) Error() string { return "decorator boom" }
