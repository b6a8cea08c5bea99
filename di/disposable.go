package di

// Disposable is a scoped resource. When a provider constructs a value
// implementing Disposable, the owning injector records it and calls Close()
// when the injector itself is closed, in reverse-acquisition order.
//
// Example:
//
//	type Session struct{ conn *Connection }
//
//	func (s *Session) Close() error {
//	    return s.conn.Release()
//	}
type Disposable interface {
	Close() error
}
