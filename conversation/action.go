package conversation

import "context"

// ActionKind discriminates the outbound side effects the core asks the
// transport adapter to perform. The core never touches the transport itself;
// it only emits these actions in order, and never retries delivery.
type ActionKind int

const (
	// ActionSendText shows a text message, optionally with action buttons.
	ActionSendText ActionKind = iota
	// ActionSendImage shows a locally staged image file.
	ActionSendImage
	// ActionSendDocument shows a locally staged file under a display name.
	ActionSendDocument
	// ActionEditPrevious replaces the text (and buttons) of the previous
	// prompt this conversation sent.
	ActionEditPrevious
	// ActionClearButtons strips the action buttons off the previous prompt.
	ActionClearButtons
)

// Keyboard describes the action buttons attached to a prompt. Rows gives the
// number of buttons per row, in order; an empty Rows lays every button on its
// own row.
type Keyboard struct {
	Buttons []string
	Rows    []int
}

// Action is one outbound side effect. The transport adapter owns delivery
// and deletes staged files afterwards.
type Action struct {
	Kind     ActionKind
	Text     string
	Path     string
	Filename string
	Caption  string
	Keyboard *Keyboard
}

// Transport delivers the core's outbound actions to the chat surface. The
// notifier uses it for broadcasts; event handling returns actions to the
// caller instead.
type Transport interface {
	Deliver(ctx context.Context, userID int64, actions []Action) error
}

func sendText(text string, keyboard *Keyboard) Action {
	return Action{Kind: ActionSendText, Text: text, Keyboard: keyboard}
}

func sendImage(path, caption string) Action {
	return Action{Kind: ActionSendImage, Path: path, Caption: caption}
}

func sendDocument(path, filename, caption string, keyboard *Keyboard) Action {
	return Action{Kind: ActionSendDocument, Path: path, Filename: filename, Caption: caption, Keyboard: keyboard}
}

func editPrevious(text string, keyboard *Keyboard) Action {
	return Action{Kind: ActionEditPrevious, Text: text, Keyboard: keyboard}
}

func clearButtons() Action {
	return Action{Kind: ActionClearButtons}
}

func keyboard(buttons ...string) *Keyboard {
	return &Keyboard{Buttons: buttons}
}

func keyboardRows(rows []int, buttons ...string) *Keyboard {
	return &Keyboard{Buttons: buttons, Rows: rows}
}
