package domain

// ChatMessage is the wire shape sent to the chat endpoint. Options are
// never sent upstream, so committed Messages are reduced to this shape
// before a request is built.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
