package model

// StubName is the registry key of the stub model.
const StubName = "test_model"

// Stub is a trivial model used for smoke tests and as a known-good registry
// entry: it always returns item ids 0..k-1.
type Stub struct{}

func NewStub() *Stub {
	return &Stub{}
}

func (s *Stub) Name() string {
	return StubName
}

func (s *Stub) Predict(_ int64, k int) []int64 {
	items := make([]int64, 0, k)
	for i := 0; i < k; i++ {
		items = append(items, int64(i))
	}
	return items
}
