package kernel

// ModuleBuilder is a registration action within a Module.
type ModuleBuilder func(*Kernel) error

// Module groups related registrations into a reusable, named unit —
// a registration-time convenience that never touches resolution.
//
// Example:
//
//	var DatabaseModule = kernel.Module("database",
//	    kernel.AddSingleton("Database", kernel.Class("Database")),
//	    kernel.AddScoped("UserRepository", kernel.Class("UserRepository")),
//	)
func Module(name string, builders ...ModuleBuilder) ModuleBuilder {
	return func(k *Kernel) error {
		for _, builder := range builders {
			if builder == nil {
				continue
			}
			if err := builder(k); err != nil {
				return &ModuleError{Module: name, Cause: err}
			}
		}
		return nil
	}
}

// AddModule nests another module inside this one.
func AddModule(module ModuleBuilder) ModuleBuilder {
	return func(k *Kernel) error {
		if module == nil {
			return nil
		}
		return module(k)
	}
}

// AddSingleton creates a ModuleBuilder that binds id as Singleton.
func AddSingleton(id string, concrete ConcreteSpec) ModuleBuilder {
	return func(k *Kernel) error {
		k.Singleton(id, concrete)
		return nil
	}
}

// AddScoped creates a ModuleBuilder that binds id as Scoped.
func AddScoped(id string, concrete ConcreteSpec) ModuleBuilder {
	return func(k *Kernel) error {
		k.Scoped(id, concrete)
		return nil
	}
}

// AddTransient creates a ModuleBuilder that binds id as Transient.
func AddTransient(id string, concrete ConcreteSpec) ModuleBuilder {
	return func(k *Kernel) error {
		k.Bind(id, concrete, Transient)
		return nil
	}
}

// AddModules applies each module against the Kernel in order, stopping at
// the first error.
func (k *Kernel) AddModules(modules ...ModuleBuilder) error {
	for _, m := range modules {
		if m == nil {
			continue
		}
		if err := m(k); err != nil {
			return err
		}
	}
	return nil
}
