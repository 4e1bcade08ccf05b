package option

type Option[T any] struct {
	value T
	ok    bool
}

func Some[T any](v T) Option[T] { return Option[T]{value: v, ok: true} }

func (o Option[T]) Get() (T, bool) { return o.value, o.ok }
