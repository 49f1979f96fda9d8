package vectorindex

// Similarity remaps a raw store-reported score into [0,1] via the affine
// map (score+1)/2, clamped. Assumes the store reports raw cosine
// similarity in [-1,1]; collections are created with cosine distance, so
// this holds for both shipped stores.
func Similarity(score float64) float64 {
	s := (score + 1) / 2
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
