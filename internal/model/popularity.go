package model

// topPopular returns the first k items of the popularity list, most popular
// first. The list may be shorter than k.
func topPopular(pops []int64, k int) []int64 {
	if k < 0 {
		k = 0
	}
	if k > len(pops) {
		k = len(pops)
	}
	out := make([]int64, k)
	copy(out, pops[:k])
	return out
}

// padWithPopular appends popularity items not already present in recs,
// preserving popularity order, until recs reaches k entries or the list is
// exhausted.
func padWithPopular(recs []int64, pops []int64, k int) []int64 {
	if len(recs) >= k {
		return recs[:k]
	}
	seen := make(map[int64]struct{}, len(recs))
	for _, id := range recs {
		seen[id] = struct{}{}
	}
	for _, id := range pops {
		if len(recs) >= k {
			break
		}
		if _, ok := seen[id]; ok {
			continue
		}
		recs = append(recs, id)
		seen[id] = struct{}{}
	}
	return recs
}
