package persist

// Persister ties one state type to the basename and codec its snapshots are
// stored under, so call sites do not repeat the file naming convention.
type Persister[T any] struct {
	basename string
	codec    Codec
}

// NewPersister creates a persister for the given basename and codec.
func NewPersister[T any](basename string, codec Codec) *Persister[T] {
	return &Persister[T]{
		basename: basename,
		codec:    codec,
	}
}

// Save writes the state snapshot under dir.
func (p *Persister[T]) Save(dir string, state *T) error {
	return SaveState(dir, p.basename, p.codec, state)
}

// Load reads the state snapshot stored under dir.
func (p *Persister[T]) Load(dir string) (*T, error) {
	var state T

	err := LoadState(dir, p.basename, p.codec, &state)
	if err != nil {
		return nil, err
	}

	return &state, nil
}
