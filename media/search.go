package media

import "sort"

// DefaultThresholdPercent is the minimum similarity percentage a gallery
// entry must score to qualify as a match.
const DefaultThresholdPercent = 60.0

// SearchGallery scans the gallery for the single best match at or above
// thresholdPercent. The scan keeps the strictly greatest similarity seen so
// far, so when two entries tie the earlier one in gallery order wins. A nil
// probe, an empty gallery, or a gallery with no qualifying entry all return
// NoMatch. The gallery is never mutated.
func SearchGallery(probe []float32, gallery []KnownEncoding, thresholdPercent float32) MatchResult {
	best := NoMatch()
	var bestSimilarity float32

	for _, known := range gallery {
		if known.Encoding == nil {
			continue
		}
		similarity := Similarity(probe, known.Encoding)
		if similarity > bestSimilarity && similarity >= thresholdPercent {
			bestSimilarity = similarity
			criminalID := known.CriminalID
			best = MatchResult{
				Matched:      true,
				Name:         known.Name,
				Similarity:   similarity,
				CriminalID:   &criminalID,
				CriminalCode: known.CriminalCode,
				MugshotID:    known.MugshotID,
			}
		}
	}
	return best
}

// SearchGalleryAll returns every gallery entry scoring at or above
// thresholdPercent, sorted by similarity descending. The sort is stable, so
// ties keep their gallery iteration order.
func SearchGalleryAll(probe []float32, gallery []KnownEncoding, thresholdPercent float32) []MatchResult {
	matches := []MatchResult{}
	for _, known := range gallery {
		if known.Encoding == nil {
			continue
		}
		similarity := Similarity(probe, known.Encoding)
		if similarity < thresholdPercent {
			continue
		}
		criminalID := known.CriminalID
		matches = append(matches, MatchResult{
			Matched:      true,
			Name:         known.Name,
			Similarity:   similarity,
			CriminalID:   &criminalID,
			CriminalCode: known.CriminalCode,
			MugshotID:    known.MugshotID,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	return matches
}
