package service

import (
	"sort"

	"github.com/vertextoedge/course-archiver/internal/domain/vo"
)

// SelectVideoURL picks one link out of the available renditions.
//
// Priority order: the desired quality when present, then the adaptive
// rendition, then the middle of the remaining labels sorted by numeric
// quality. The middle avoids both the smallest and the largest extreme.
// A label that defeats numeric sorting degrades the pick to the
// lexically first key, which stays deterministic. Returns false only
// when the map is empty.
func SelectVideoURL(links map[string]string, desired string) (string, bool) {
	if len(links) == 0 {
		return "", false
	}
	if url, ok := links[desired]; ok {
		return url, true
	}
	if url, ok := links[vo.AdaptiveLabel]; ok {
		return url, true
	}

	keys := make([]string, 0, len(links))
	for k := range links {
		if k != vo.AdaptiveLabel {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	numeric := make(map[string]int, len(keys))
	for _, k := range keys {
		q, err := vo.NewQuality(k)
		if err != nil {
			return links[keys[0]], true
		}
		n, err := q.Numeric()
		if err != nil {
			return links[keys[0]], true
		}
		numeric[k] = n
	}

	sort.SliceStable(keys, func(i, j int) bool {
		return numeric[keys[i]] < numeric[keys[j]]
	})
	return links[keys[(len(keys)-1)/2]], true
}
