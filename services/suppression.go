package services

import "github.com/dvrpc/traffic-counts-api/models"

// FilterSuppressed drops the buckets that fall on a suppressed date unless
// include is set. Order is preserved and the input is never modified.
func FilterSuppressed[T models.Bucket](buckets []T, suppressed []models.Date, include bool) []T {
	if include || len(suppressed) == 0 {
		return buckets
	}

	skip := make(map[string]struct{}, len(suppressed))
	for _, d := range suppressed {
		skip[d.Key()] = struct{}{}
	}

	kept := make([]T, 0, len(buckets))
	for _, b := range buckets {
		if _, ok := skip[b.Day().Key()]; ok {
			continue
		}
		kept = append(kept, b)
	}
	return kept
}
