package domain

// FeedbackVote is sent once to the feedback endpoint and never stored locally.
type FeedbackVote struct {
	InteractionID string
	IsPositive    bool
	FreeText      string
}

// FeedbackTarget identifies the message a feedback button belongs to.
type FeedbackTarget struct {
	Channel   string
	MessageTS string
	UserID    string
}

// Complete reports whether enough of the interaction survived to update the
// message.
func (t FeedbackTarget) Complete() bool {
	return t.Channel != "" && t.MessageTS != "" && t.UserID != ""
}
