package kernel

// Decorator wraps a resolved value, returning the (possibly replaced)
// value that callers actually receive. container is a resolution-scoped
// handle on the Kernel the decorator was registered against: calling its
// Get/Call re-enters the container as part of this same resolution, the
// same as a Factory's container argument.
type Decorator func(instance any, container *FactoryContainer) (any, error)

// Decorate registers fn to run, in registration order, every time id is
// evaluated — after Evaluate/Instantiate, before the lifetime strategy
// stores the result. Decorators compose: the first registered is
// innermost.
func (k *Kernel) Decorate(id string, fn Decorator) {
	k.store.Decorate(id, func(instance any, container any) (any, error) {
		fc, _ := container.(*FactoryContainer)
		return fn(instance, fc)
	})
}
