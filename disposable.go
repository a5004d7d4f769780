package kernel

import "context"

// Disposable lets a Scoped instance clean itself up when its scope ends.
//
// Example:
//
//	type DatabaseConnection struct{ conn *sql.DB }
//
//	func (dc *DatabaseConnection) Close() error { return dc.conn.Close() }
type Disposable interface {
	Close() error
}

// DisposableWithContext is the context-aware variant of Disposable,
// preferred when EndScope is given a context (see Kernel.EndScopeContext).
type DisposableWithContext interface {
	Close(ctx context.Context) error
}

// dispose runs Close/Close(ctx) against instance if it implements either
// disposal interface, preferring the context-aware form.
func dispose(ctx context.Context, instance any) error {
	if d, ok := instance.(DisposableWithContext); ok {
		return d.Close(ctx)
	}
	if d, ok := instance.(Disposable); ok {
		return d.Close()
	}
	return nil
}
