package technical

import "github.com/Alias1177/Analyzer/internal/model"

// CalculateVolumeProfile bins volume by price into equal-width buckets spanning
// [min(prices), max(prices)]. The top bucket includes the maximum price. When
// every price is equal the whole volume lands in the first bucket.
func CalculateVolumeProfile(volumes, prices []float64, buckets int) model.VolumeProfile {
	profile := model.VolumeProfile{Buckets: []float64{}}
	if buckets <= 0 {
		return profile
	}
	profile.Buckets = make([]float64, buckets)

	n := min(len(volumes), len(prices))
	if n == 0 {
		return profile
	}

	lowest, highest := minMax(prices[:n])
	step := (highest - lowest) / float64(buckets)
	profile.Low = lowest
	profile.High = highest
	profile.BucketSize = step

	for i := 0; i < n; i++ {
		idx := 0
		if step > 0 {
			idx = min(int((prices[i]-lowest)/step), buckets-1)
		}
		profile.Buckets[idx] += volumes[i]
	}
	return profile
}
