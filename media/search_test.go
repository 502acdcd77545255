package media

import "testing"

// galleryEntry builds an encoding whose similarity to the zero probe is
// (1 - v/2) * 100 for a length-4 encoding, so scores can be dialed exactly.
func galleryEntry(id uint, name string, v float32) KnownEncoding {
	return KnownEncoding{
		MugshotID:    id,
		CriminalID:   id,
		CriminalCode: name + "-code",
		Name:         name,
		Encoding:     []float32{v, 0, 0, 0},
	}
}

var zeroProbe = []float32{0, 0, 0, 0}

func TestSearchGallery(t *testing.T) {
	gallery := []KnownEncoding{
		galleryEntry(1, "fifty", 1.0),  // 50%
		galleryEntry(2, "ninety", 0.2), // 90%
		galleryEntry(3, "sixty", 0.8),  // 60%
	}

	t.Run("best qualifying entry wins", func(t *testing.T) {
		result := SearchGallery(zeroProbe, gallery, DefaultThresholdPercent)
		if !result.Matched {
			t.Fatal("expected a match")
		}
		if result.MugshotID != 2 || result.Name != "ninety" {
			t.Errorf("got %s (mugshot %d), want ninety (mugshot 2)", result.Name, result.MugshotID)
		}
		if !almostEqual(result.Similarity, 90) {
			t.Errorf("similarity = %v, want 90", result.Similarity)
		}
		if result.CriminalID == nil || *result.CriminalID != 2 {
			t.Errorf("criminal ID not carried through: %v", result.CriminalID)
		}
	})

	t.Run("threshold boundary is inclusive", func(t *testing.T) {
		only := []KnownEncoding{galleryEntry(3, "sixty", 0.8)}
		result := SearchGallery(zeroProbe, only, DefaultThresholdPercent)
		if !result.Matched {
			t.Errorf("entry scoring exactly the threshold should qualify")
		}
	})

	t.Run("no qualifying entry", func(t *testing.T) {
		only := []KnownEncoding{galleryEntry(1, "fifty", 1.0)}
		result := SearchGallery(zeroProbe, only, DefaultThresholdPercent)
		if result.Matched {
			t.Fatalf("expected no match, got %v", result)
		}
		if result.Name != "Unknown" || result.Similarity != 0 {
			t.Errorf("no-match result should be {Unknown, 0}, got %v", result)
		}
	})

	t.Run("empty gallery", func(t *testing.T) {
		result := SearchGallery(zeroProbe, nil, DefaultThresholdPercent)
		if result.Matched {
			t.Errorf("empty gallery must return no match")
		}
	})

	t.Run("first seen wins a tie", func(t *testing.T) {
		tied := []KnownEncoding{
			galleryEntry(7, "first", 0.4),
			galleryEntry(8, "second", 0.4),
		}
		result := SearchGallery(zeroProbe, tied, DefaultThresholdPercent)
		if result.MugshotID != 7 {
			t.Errorf("tie should resolve to the earlier entry, got mugshot %d", result.MugshotID)
		}
	})

	t.Run("nil encodings are skipped", func(t *testing.T) {
		withNil := []KnownEncoding{
			{MugshotID: 9, Name: "broken", Encoding: nil},
			galleryEntry(10, "ok", 0.2),
		}
		result := SearchGallery(zeroProbe, withNil, DefaultThresholdPercent)
		if result.MugshotID != 10 {
			t.Errorf("expected the valid entry, got mugshot %d", result.MugshotID)
		}
	})

	t.Run("nil probe", func(t *testing.T) {
		result := SearchGallery(nil, gallery, DefaultThresholdPercent)
		if result.Matched {
			t.Errorf("nil probe must not match anything")
		}
	})
}

func TestSearchGalleryAll(t *testing.T) {
	gallery := []KnownEncoding{
		galleryEntry(1, "fifty", 1.0),  // 50%, below threshold
		galleryEntry(2, "sixty", 0.8),  // 60%
		galleryEntry(3, "ninety", 0.2), // 90%
	}

	t.Run("qualifiers sorted descending", func(t *testing.T) {
		matches := SearchGalleryAll(zeroProbe, gallery, DefaultThresholdPercent)
		if len(matches) != 2 {
			t.Fatalf("expected 2 qualifying matches, got %d", len(matches))
		}
		if matches[0].Name != "ninety" || matches[1].Name != "sixty" {
			t.Errorf("wrong order: %s, %s", matches[0].Name, matches[1].Name)
		}
	})

	t.Run("ties keep gallery order", func(t *testing.T) {
		tied := []KnownEncoding{
			galleryEntry(7, "first", 0.4),
			galleryEntry(8, "second", 0.4),
		}
		matches := SearchGalleryAll(zeroProbe, tied, DefaultThresholdPercent)
		if len(matches) != 2 {
			t.Fatalf("expected 2 matches, got %d", len(matches))
		}
		if matches[0].MugshotID != 7 || matches[1].MugshotID != 8 {
			t.Errorf("stable sort broke gallery order: %d, %d", matches[0].MugshotID, matches[1].MugshotID)
		}
	})

	t.Run("scores 55, 72, 91 at threshold 60", func(t *testing.T) {
		mixed := []KnownEncoding{
			galleryEntry(1, "a", 0.90), // 55%
			galleryEntry(2, "b", 0.56), // 72%
			galleryEntry(3, "c", 0.18), // 91%
		}
		best := SearchGallery(zeroProbe, mixed, 60)
		if !almostEqual(best.Similarity, 91) {
			t.Errorf("best similarity = %v, want 91", best.Similarity)
		}
		ranked := SearchGalleryAll(zeroProbe, mixed, 60)
		if len(ranked) != 2 {
			t.Fatalf("expected 2 qualifiers, got %d", len(ranked))
		}
		if !almostEqual(ranked[0].Similarity, 91) || !almostEqual(ranked[1].Similarity, 72) {
			t.Errorf("ranked = %v, %v, want 91, 72", ranked[0].Similarity, ranked[1].Similarity)
		}
	})

	t.Run("no qualifiers returns empty non-nil slice", func(t *testing.T) {
		matches := SearchGalleryAll(zeroProbe, nil, DefaultThresholdPercent)
		if matches == nil {
			t.Fatal("expected empty slice, got nil")
		}
		if len(matches) != 0 {
			t.Errorf("expected no matches, got %d", len(matches))
		}
	})
}
