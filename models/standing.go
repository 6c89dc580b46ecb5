package models

// Standing is one backend-computed row of the standings table.
type Standing struct {
	PlayerID        int64   `json:"playerId"`
	Name            string  `json:"name"`
	Score           float64 `json:"score"`
	Buchholz        float64 `json:"buchholz"`
	SonnebornBerger float64 `json:"sonnebornBerger"`
}
