package store

import (
	"reflect"
	"testing"

	"github.com/junioryono/kernel/internal/prototype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindUpsertsAndReportsDuplicate(t *testing.T) {
	s := New()
	var duplicates []string
	s.OnDuplicate(func(kind, serviceId string) { duplicates = append(duplicates, kind+":"+serviceId) })

	s.Bind("Logger", Concrete{Kind: ConcreteClass, ClassName: "FileLogger"}, Singleton)
	assert.Empty(t, duplicates)

	s.Bind("Logger", Concrete{Kind: ConcreteClass, ClassName: "HttpLogger"}, Transient)
	require.Equal(t, []string{"bind:Logger"}, duplicates)

	def, ok := s.FindDefinition("Logger")
	require.True(t, ok)
	assert.Equal(t, "HttpLogger", def.Concrete.ClassName)
	assert.Equal(t, Transient, def.Lifetime)
}

func TestInstanceBindsAsSingletonConcreteInstance(t *testing.T) {
	s := New()
	s.Instance("Config", map[string]string{"env": "prod"})

	def, ok := s.FindDefinition("Config")
	require.True(t, ok)
	assert.Equal(t, ConcreteInstance, def.Concrete.Kind)
	assert.Equal(t, Singleton, def.Lifetime)
	assert.Equal(t, map[string]string{"env": "prod"}, def.Concrete.Instance)
}

func TestWithArgumentOnExistingDefinitionAddsOverride(t *testing.T) {
	s := New()
	s.Bind("Repo", Concrete{Kind: ConcreteClass, ClassName: "SqlRepo"}, Scoped)
	s.WithArgument("Repo", "dsn", "postgres://localhost")

	def, ok := s.FindDefinition("Repo")
	require.True(t, ok)
	assert.Equal(t, "postgres://localhost", def.Arguments["dsn"])
	assert.Equal(t, Scoped, def.Lifetime, "WithArgument must not disturb an existing lifetime")
}

func TestWithArgumentOnUnknownServiceCreatesAutowireDefinition(t *testing.T) {
	s := New()
	s.WithArgument("Repo", "dsn", "postgres://localhost")

	def, ok := s.FindDefinition("Repo")
	require.True(t, ok)
	assert.Equal(t, Transient, def.Lifetime)
	assert.Equal(t, "postgres://localhost", def.Arguments["dsn"])
}

func TestContextualBindingRequiresNeedsBeforeGive(t *testing.T) {
	s := New()
	b := s.When("HttpController")

	err := b.Give(Concrete{Kind: ConcreteClass, ClassName: "HttpLogger"})
	assert.ErrorIs(t, err, ErrGiveWithoutNeeds)

	_, found := s.FindContextual("HttpController", "Logger")
	assert.False(t, found)
}

func TestContextualBindingChainRegistersAndResets(t *testing.T) {
	s := New()
	b := s.When("HttpController").Needs("Logger")
	require.NoError(t, b.Give(Concrete{Kind: ConcreteClass, ClassName: "HttpLogger"}))

	concrete, found := s.FindContextual("HttpController", "Logger")
	require.True(t, found)
	assert.Equal(t, "HttpLogger", concrete.ClassName)

	// Give resets the in-progress marker, so a second Give without a new
	// Needs must fail rather than silently rebind.
	err := b.Give(Concrete{Kind: ConcreteClass, ClassName: "NullLogger"})
	assert.ErrorIs(t, err, ErrGiveWithoutNeeds)
}

func TestContextualBindingIsScopedToConsumer(t *testing.T) {
	s := New()
	require.NoError(t, s.When("HttpController").Needs("Logger").Give(Concrete{Kind: ConcreteClass, ClassName: "HttpLogger"}))

	_, found := s.FindContextual("BackgroundWorker", "Logger")
	assert.False(t, found, "a contextual binding for one consumer must not leak to another")
}

func TestTagAndTaggedBy(t *testing.T) {
	s := New()
	s.Tag("FileLogger", "logger", "disposable")
	s.Tag("HttpLogger", "logger")

	assert.ElementsMatch(t, []string{"FileLogger", "HttpLogger"}, s.TaggedBy("logger"))
	assert.Equal(t, []string{"FileLogger"}, s.TaggedBy("disposable"))
	assert.Empty(t, s.TaggedBy("unknown"))
}

func TestTagIsIdempotentPerServiceId(t *testing.T) {
	s := New()
	s.Tag("FileLogger", "logger")
	s.Tag("FileLogger", "logger")

	assert.Equal(t, []string{"FileLogger"}, s.TaggedBy("logger"))
}

func TestRegisterTypeAndClassExists(t *testing.T) {
	s := New()
	assert.False(t, s.ClassExists("Widget"))

	s.RegisterType(prototype.TypeDescriptor{ClassName: "Widget", Type: reflect.TypeOf(struct{}{})})
	assert.True(t, s.ClassExists("Widget"))

	desc, ok := s.TypeDescriptor("Widget")
	require.True(t, ok)
	assert.Equal(t, "Widget", desc.ClassName)
}

func TestClassExistsFalseWhenTypeRegisteredWithNilType(t *testing.T) {
	s := New()
	s.RegisterType(prototype.TypeDescriptor{ClassName: "Ghost"})
	assert.False(t, s.ClassExists("Ghost"))
}

func TestDecorateAndDecoratorsPreserveOrder(t *testing.T) {
	s := New()
	var order []string
	s.Decorate("Logger", func(instance, container any) (any, error) {
		order = append(order, "first")
		return instance, nil
	})
	s.Decorate("Logger", func(instance, container any) (any, error) {
		order = append(order, "second")
		return instance, nil
	})

	decorators := s.Decorators("Logger")
	require.Len(t, decorators, 2)
	for _, d := range decorators {
		_, _ = d(nil, nil)
	}
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestMarkBuiltTriggersOnAfterBuildForSubsequentWrites(t *testing.T) {
	s := New()
	var afterBuildOps []string
	s.OnAfterBuild(func(op, serviceId string) { afterBuildOps = append(afterBuildOps, op+":"+serviceId) })

	s.Bind("Logger", Concrete{Kind: ConcreteClass, ClassName: "FileLogger"}, Singleton)
	assert.Empty(t, afterBuildOps, "writes before MarkBuilt must not fire onAfterBuild")

	s.MarkBuilt()
	s.Bind("Logger2", Concrete{Kind: ConcreteClass, ClassName: "HttpLogger"}, Singleton)
	assert.Equal(t, []string{"bind:Logger2"}, afterBuildOps)
}
