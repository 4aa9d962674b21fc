package bid

// Scoring weights: a cheap rate dominates, the carrier rating breaks the
// rest. Higher score is better.
const (
	rateWeight   = 0.7
	ratingWeight = 0.3
	ratingScale  = 5.0
)

// Score ranks a bid by price and carrier quality:
//
//	score = 0.7 * (1 / proposedRate) + 0.3 * (rating / 5)
//
// Both a cheaper rate and a higher rating increase the score.
func Score(proposedRate, rating float64) float64 {
	return rateWeight*(1.0/proposedRate) + ratingWeight*(rating/ratingScale)
}
