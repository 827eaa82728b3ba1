package domain

// RatingEntry accumulates scores per principal. The average is always
// derived from total/count, never stored, so it cannot drift.
type RatingEntry struct {
	Principal  string `json:"principal"`
	TotalScore int64  `json:"total_score"`
	Count      int64  `json:"count"`
}

func (r RatingEntry) Average() float64 {
	if r.Count == 0 {
		return 0
	}
	return float64(r.TotalScore) / float64(r.Count)
}
