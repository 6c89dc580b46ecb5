package models

// Tournament is the backend's view of a Swiss tournament.
type Tournament struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	TotalRounds int    `json:"totalRounds"`
}

type CreateTournamentRequest struct {
	Name        string `json:"name"`
	TotalRounds int    `json:"totalRounds"`
}
