package models

// ResultCode is one of the textual match results the backend accepts.
type ResultCode string

const (
	ResultWhiteWins ResultCode = "1-0"
	ResultBlackWins ResultCode = "0-1"
	ResultDraw      ResultCode = "0.5-0.5"
	ResultBye       ResultCode = "BYE"
)

// ResultOption pairs a result code with the label shown in the result picker.
type ResultOption struct {
	Value ResultCode
	Label string
}

// ResultOptions is the closed set of codes in display order.
var ResultOptions = []ResultOption{
	{Value: ResultWhiteWins, Label: "1-0 (Player 1 wins)"},
	{Value: ResultBlackWins, Label: "0-1 (Player 2 wins)"},
	{Value: ResultDraw, Label: "0.5-0.5 (Draw)"},
	{Value: ResultBye, Label: "BYE"},
}

// Valid reports whether r is one of the recognized codes.
func (r ResultCode) Valid() bool {
	switch r {
	case ResultWhiteWins, ResultBlackWins, ResultDraw, ResultBye:
		return true
	default:
		return false
	}
}

const byeName = "(BYE)"

// Match is a single pairing inside a round. A nil player is a bye.
type Match struct {
	ID          int64       `json:"id"`
	Player1ID   *int64      `json:"player1Id"`
	Player1Name *string     `json:"player1Name"`
	Player2ID   *int64      `json:"player2Id"`
	Player2Name *string     `json:"player2Name"`
	Result      *ResultCode `json:"result"`
}

func (m Match) Player1Display() string {
	return displayName(m.Player1Name)
}

func (m Match) Player2Display() string {
	return displayName(m.Player2Name)
}

// IsBye reports whether either side of the pairing is empty.
func (m Match) IsBye() bool {
	return m.Player1ID == nil || m.Player2ID == nil
}

// CurrentResult returns the recorded result or "" when unset.
func (m Match) CurrentResult() ResultCode {
	if m.Result == nil {
		return ""
	}
	return *m.Result
}

func displayName(name *string) string {
	if name == nil || *name == "" {
		return byeName
	}
	return *name
}

type SetResultRequest struct {
	Result ResultCode `json:"result"`
}
