package enrichment

// outcome is the tagged result of one internal stage: either a value or an
// error, never both. Stages return outcomes instead of failing the run so
// the pipeline decides which failures are soft.
type outcome[T any] struct {
	value T
	err   error
}

func succeed[T any](v T) outcome[T] {
	return outcome[T]{value: v}
}

func fail[T any](err error) outcome[T] {
	return outcome[T]{err: err}
}

// ok reports whether the stage produced a value.
func (o outcome[T]) ok() bool {
	return o.err == nil
}

// get unpacks the outcome.
func (o outcome[T]) get() (T, error) {
	return o.value, o.err
}
