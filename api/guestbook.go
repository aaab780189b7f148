package api

// GuestbookProto is the visitor-submitted form. Website is a honeypot
// field; real clients leave it empty.
type GuestbookProto struct {
	Author  string `json:"author"`
	Message string `json:"message"`
	Website string `json:"website,omitempty"`
}

// GuestbookEntry is the public shape of a stored entry.
type GuestbookEntry struct {
	ID        string `json:"id"`
	Author    string `json:"author"`
	Message   string `json:"message"`
	CreatedAt string `json:"created_at"`
}
