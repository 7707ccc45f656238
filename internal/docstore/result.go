package docstore

// Status tags the outcome of a read
type Status int

const (
	// StatusOK means the document was found and decoded
	StatusOK Status = iota
	// StatusEmpty means nothing is stored under the key
	StatusEmpty
	// StatusFailed means the provider failed or the stored value is corrupt
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusEmpty:
		return "empty"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is a tagged read outcome. Err is set only when Status is StatusFailed.
type Result[T any] struct {
	Value  T
	Status Status
	Err    error
}

func ok[T any](v T) Result[T] {
	return Result[T]{Value: v, Status: StatusOK}
}

func empty[T any]() Result[T] {
	return Result[T]{Status: StatusEmpty}
}

func failed[T any](err error) Result[T] {
	return Result[T]{Status: StatusFailed, Err: err}
}

// OK reports whether a value was found
func (r Result[T]) OK() bool {
	return r.Status == StatusOK
}

// Get returns the value and whether it was found. Failures read as absent.
func (r Result[T]) Get() (T, bool) {
	return r.Value, r.Status == StatusOK
}
