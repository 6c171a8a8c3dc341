package guestbook

// Reply is a nested answer to a guestbook message, kept newest first.
type Reply struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Text string `json:"text"`
	At   int64  `json:"at"`
}

// Message is a free-standing guestbook entry. Reactions are de-duplicated
// per client: ReactedBy maps a client id to the single emoji that client
// currently holds, and Reactions tallies how many clients hold each emoji.
type Message struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Text      string            `json:"text"`
	At        int64             `json:"at"`
	Replies   []Reply           `json:"replies"`
	Reactions map[string]int    `json:"reactions"`
	ReactedBy map[string]string `json:"reactedBy"`
}

// ReactionState is what a reaction call hands back: the full tally plus the
// calling client's currently active emoji.
type ReactionState struct {
	Reactions    map[string]int `json:"reactions"`
	UserReaction string         `json:"userReaction"`
}
