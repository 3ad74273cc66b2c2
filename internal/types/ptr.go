package types

// Float returns a pointer to v. Optional configuration fields use pointers
// so an explicitly set zero survives default filling.
func Float(v float64) *float64 {
	return &v
}
