package model

// StatsRecord tracks a participant's scoring history, keyed by connection
// identity. Records are created lazily on the first scored session and live
// for the process lifetime.
type StatsRecord struct {
	Wins       int `json:"wins"`
	Losses     int `json:"losses"`
	Streak     int `json:"streak"`
	TotalGames int `json:"totalGames"`
}

// Apply records one scored game
func (r *StatsRecord) Apply(correct bool) {
	r.TotalGames++
	if correct {
		r.Wins++
		r.Streak++
	} else {
		r.Losses++
		r.Streak = 0
	}
}
