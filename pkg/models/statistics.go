package models

// Statistics summarizes learning state across the whole card set.
type Statistics struct {
	Total          int `json:"total"`
	Studied        int `json:"studied"`
	Passed         int `json:"passed"`
	DueForReview   int `json:"due_for_review"`
	NewCards       int `json:"new_cards"`
	TotalCorrect   int `json:"total_correct"`
	TotalIncorrect int `json:"total_incorrect"`
	Accuracy       int `json:"accuracy"` // percentage, 0 when no answers exist
}

// SessionSummary is the result of one finished study session.
type SessionSummary struct {
	Correct        int `json:"correct"`
	Incorrect      int `json:"incorrect"`
	Accuracy       int `json:"accuracy"` // percentage, 0 when no answers were given
	ElapsedSeconds int `json:"elapsed_seconds"`
}
