package domain

// DefaultChunksAssistant is sent when a chunks request names no assistant.
// The remote API requires the assistants field even in chunks mode.
const DefaultChunksAssistant = "clowder"

// NoResponseText replaces a missing text_content.
const NoResponseText = "(No response from assistant)"

type ChatRequest struct {
	Query         string
	Chunks        []string // nil outside of chunks mode
	SessionID     string
	InteractionID string // filled by the client when empty
	ClientName    string
	Assistants    []string
	SystemPrompt  string
	UserPrompt    string
	Model         string
}

// UsesChunks reports whether the request grounds the answer in caller-supplied
// context instead of the remote knowledge base.
func (r ChatRequest) UsesChunks() bool {
	return r.Chunks != nil
}

type Citation struct {
	URL   string
	Title string
}

type ChatResponse struct {
	Text          string
	Citations     []Citation
	InteractionID string
}

type Assistant struct {
	Name        string
	Description string
}
