package model

// Model is the capability every recommendation strategy implements: given a
// user id and a count k, return up to k item ids, best first. The result may
// be shorter than k when the catalog and the popularity fallback are both
// exhausted.
//
// Implementations are immutable after construction. All lookup structures are
// loaded once at startup, so Predict is safe for concurrent use without
// locking.
type Model interface {
	Name() string
	Predict(userID int64, k int) []int64
}
