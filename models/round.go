package models

import "encoding/json"

// Round is the most recently generated set of pairings.
type Round struct {
	ID      int64   `json:"roundId"`
	Number  int     `json:"roundNumber"`
	Matches []Match `json:"matches"`
}

// UnmarshalJSON accepts the legacy "number" field when "roundNumber" is absent.
func (r *Round) UnmarshalJSON(data []byte) error {
	type plain Round
	var aux struct {
		plain
		LegacyNumber *int `json:"number"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = Round(aux.plain)
	if r.Number == 0 && aux.LegacyNumber != nil {
		r.Number = *aux.LegacyNumber
	}
	return nil
}

// Match looks up a match of the round by id.
func (r *Round) Match(id int64) (Match, bool) {
	if r == nil {
		return Match{}, false
	}
	for _, m := range r.Matches {
		if m.ID == id {
			return m, true
		}
	}
	return Match{}, false
}
