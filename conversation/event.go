package conversation

// EventKind discriminates the inbound event payload.
type EventKind int

const (
	// EventText is a free-text message.
	EventText EventKind = iota
	// EventButton is an explicit action-button press.
	EventButton
	// EventDocument is a file attachment (admin spreadsheet uploads).
	EventDocument
)

// FilePayload carries an attached file.
type FilePayload struct {
	Filename string
	MIMEType string
	Data     []byte
}

// Event is one inbound user interaction, already tagged with the user's
// identity by the transport adapter.
type Event struct {
	Kind   EventKind
	Text   string
	Button string
	File   *FilePayload
}

// TextEvent builds a free-text event.
func TextEvent(text string) Event {
	return Event{Kind: EventText, Text: text}
}

// ButtonEvent builds a button-press event.
func ButtonEvent(label string) Event {
	return Event{Kind: EventButton, Button: label}
}

// FileEvent builds a document-attachment event.
func FileEvent(filename, mimeType string, data []byte) Event {
	return Event{Kind: EventDocument, File: &FilePayload{Filename: filename, MIMEType: mimeType, Data: data}}
}

// Value returns the textual payload used for matching against button labels:
// button presses and typed text are treated alike, since the original
// chat surface lets users answer closed choices by typing the label.
func (e Event) Value() string {
	if e.Kind == EventButton {
		return e.Button
	}
	return e.Text
}
