package domain

type Review struct {
	ID       int    `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Rating   int    `json:"rating" yaml:"rating"`
	Service  string `json:"service,omitempty" yaml:"service"`
	Text     string `json:"text" yaml:"text"`
	Date     string `json:"date" yaml:"date"`
	Approved *bool  `json:"approved" yaml:"approved"`
}

func (r Review) RecordID() int {
	return r.ID
}

type ModerationState string

const (
	ModerationApproved ModerationState = "approved"
	ModerationPending  ModerationState = "pending"
	ModerationRejected ModerationState = "rejected"
)

// ModerationStateOf maps the stored approved flag to its moderation state:
// true is approved, false is awaiting moderation, null or absent is rejected.
func ModerationStateOf(approved *bool) ModerationState {
	switch {
	case approved == nil:
		return ModerationRejected
	case *approved:
		return ModerationApproved
	default:
		return ModerationPending
	}
}

func (r Review) Moderation() ModerationState {
	return ModerationStateOf(r.Approved)
}

// IsPublic reports whether the review may be shown on the public site.
func (r Review) IsPublic() bool {
	return r.Approved != nil && *r.Approved
}
