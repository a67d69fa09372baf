package document

// Default canvas size in pixels.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Document is the persisted state of one editing session: the canvas and the
// objects on it. Transient interaction state never ends up here.
type Document struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Version    int     `json:"version"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Background string  `json:"background"`
	Objects    Objects `json:"objects"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
}

// NewEmptyDocument creates an empty canvas for a new session.
func NewEmptyDocument(id, name string) *Document {
	return &Document{
		ID:         id,
		Name:       name,
		Version:    1,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Background: "#ffffff",
		Objects:    Objects{},
		CreatedAt:  "", // Will be set by caller
		UpdatedAt:  "",
	}
}
