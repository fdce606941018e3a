package model

// Action is a discrete trading recommendation
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
	ActionHold Action = "hold"
)

// Signal is the classification derived from the latest indicator readings
type Signal struct {
	Action     Action   `json:"action"`
	Score      int      `json:"score"`      // buy votes minus sell votes
	Confidence float64  `json:"confidence"` // |score| / rules evaluated, 0-1
	Factors    []string `json:"factors"`
}
