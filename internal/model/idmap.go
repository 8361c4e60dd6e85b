package model

// IDMap is a bijection between external ids (arbitrary integers from the
// calling system) and internal dense ids (0-based row indices into embedding
// matrices and neighbor tables). A forward miss means "unknown to this
// model", never an error.
type IDMap struct {
	forward map[int64]int
	inverse map[int]int64
}

// NewIDMap builds the map and its inverse from the forward mapping.
func NewIDMap(forward map[int64]int) *IDMap {
	inverse := make(map[int]int64, len(forward))
	for ext, in := range forward {
		inverse[in] = ext
	}
	return &IDMap{forward: forward, inverse: inverse}
}

// Forward maps an external id to its internal id.
func (m *IDMap) Forward(external int64) (int, bool) {
	in, ok := m.forward[external]
	return in, ok
}

// Inverse maps an internal id back to its external id.
func (m *IDMap) Inverse(internal int) (int64, bool) {
	ext, ok := m.inverse[internal]
	return ext, ok
}

func (m *IDMap) Len() int {
	return len(m.forward)
}
