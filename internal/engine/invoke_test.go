package engine

import (
	"errors"
	"reflect"
	"testing"

	"github.com/junioryono/kernel/internal/prototype"
	"github.com/junioryono/kernel/internal/scoperegistry"
	"github.com/junioryono/kernel/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvokeResolvesParametersLikeAConstructor(t *testing.T) {
	eng, st, _, _ := newTestEngine()
	cName := typeName(cSvc{})
	registerStruct(st, cName, &cSvc{}, newCSvc)
	st.Bind(cName, store.Concrete{Kind: store.ConcreteClass, ClassName: cName}, store.Transient)

	var received *cSvc
	handler := func(c *cSvc, label string) string {
		received = c
		return label
	}

	ctx := NewRootContext("handler", map[string]any{"arg1": "greeting"}, nil, nil)
	result, err := eng.Invoke(ctx, reflect.ValueOf(handler), "handler")

	require.NoError(t, err)
	assert.Equal(t, "greeting", result)
	assert.NotNil(t, received)
}

func TestInvokeSpreadsVariadicOverride(t *testing.T) {
	eng, _, _, _ := newTestEngine()

	handler := func(names ...string) int { return len(names) }

	ctx := NewRootContext("handler", map[string]any{"arg0": []string{"a", "b", "c"}}, nil, nil)
	result, err := eng.Invoke(ctx, reflect.ValueOf(handler), "handler")

	require.NoError(t, err)
	assert.Equal(t, 3, result)
}

func TestInvokeWrapsTrailingErrorReturn(t *testing.T) {
	eng, _, _, _ := newTestEngine()
	boom := errors.New("boom")
	handler := func() (string, error) { return "", boom }

	ctx := NewRootContext("handler", nil, nil, nil)
	_, err := eng.Invoke(ctx, reflect.ValueOf(handler), "handler")

	require.Error(t, err)
	var re *ResolutionError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, KindFactoryThrew, re.Kind)
	assert.ErrorIs(t, re.Cause, boom)
}

func TestInvokeRejectsNonFunctionTarget(t *testing.T) {
	eng, _, _, _ := newTestEngine()
	ctx := NewRootContext("handler", nil, nil, nil)

	_, err := eng.Invoke(ctx, reflect.ValueOf("not a func"), "handler")
	assert.Error(t, err)
}

type injectTarget struct {
	Name string `inject:"true"`
}

func TestInjectIntoAppliesPropertyInjectionToExistingPointer(t *testing.T) {
	st := store.New()
	factory := prototype.NewFactory(16, nil)
	scopes := scoperegistry.New()
	eng := New(st, factory, scopes, Options{})

	st.RegisterType(prototype.TypeDescriptor{ClassName: "Target", Type: reflect.TypeOf(&injectTarget{})})

	target := &injectTarget{}
	ctx := NewRootContext("Target", map[string]any{"Name": "wired"}, nil, nil)

	result, err := eng.InjectInto(ctx, target, "Target")
	require.NoError(t, err)
	out := result.(*injectTarget)
	assert.Equal(t, "wired", out.Name)
	assert.Same(t, target, out, "InjectInto must mutate the caller's own pointer, not allocate a new one")
}

func TestInjectIntoRejectsNonPointerTarget(t *testing.T) {
	st := store.New()
	factory := prototype.NewFactory(16, nil)
	scopes := scoperegistry.New()
	eng := New(st, factory, scopes, Options{})
	st.RegisterType(prototype.TypeDescriptor{ClassName: "Target", Type: reflect.TypeOf(&injectTarget{})})

	ctx := NewRootContext("Target", nil, nil, nil)
	_, err := eng.InjectInto(ctx, injectTarget{}, "Target")
	assert.Error(t, err)
}

func TestInjectIntoUnknownClassPassesInstanceThrough(t *testing.T) {
	eng, _, _, _ := newTestEngine()
	ctx := NewRootContext("Ghost", nil, nil, nil)

	target := &injectTarget{Name: "untouched"}
	result, err := eng.InjectInto(ctx, target, "Ghost")

	require.NoError(t, err)
	assert.Same(t, target, result)
}
