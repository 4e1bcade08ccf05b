package examples

// Option is a minimal optional container.
type Option[T any] struct {
	value T
	ok    bool
}

// Some returns a present Option.
func Some[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.ok
}
