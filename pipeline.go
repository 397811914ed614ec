package edikit

// ApplyRefine calls Refiner[T] if c implements it.
func ApplyRefine[T any](v T, c Codec[T]) error {
	if r, ok := any(c).(Refiner[T]); ok {
		return r.Refine(v)
	}
	return nil
}
