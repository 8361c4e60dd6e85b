package domain

type RecoResult struct {
	Items    []int64
	CacheHit bool
}
