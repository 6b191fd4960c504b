package server

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/stocksense/procurebot/conversation"
)

// EventRequest is the transport adapter's inbound event envelope. File data
// is base64 within the JSON payload.
type EventRequest struct {
	UserID int64  `json:"user_id"`
	Kind   string `json:"kind"`
	Text   string `json:"text,omitempty"`
	Button string `json:"button,omitempty"`
	File   *struct {
		Filename string `json:"filename"`
		MIMEType string `json:"mime_type"`
		Data     []byte `json:"data"`
	} `json:"file,omitempty"`
}

// ActionResponse is one outbound action in the webhook reply.
type ActionResponse struct {
	Kind     string                 `json:"kind"`
	Text     string                 `json:"text,omitempty"`
	Path     string                 `json:"path,omitempty"`
	Filename string                 `json:"filename,omitempty"`
	Caption  string                 `json:"caption,omitempty"`
	Keyboard *conversation.Keyboard `json:"keyboard,omitempty"`
}

// EventsHandler is the webhook the transport adapter posts inbound chat
// events to; the reply carries the ordered outbound actions to deliver.
func (s *Server) EventsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req EventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid event payload", http.StatusBadRequest)
			return
		}
		if req.UserID == 0 {
			http.Error(w, "user_id is required", http.StatusBadRequest)
			return
		}

		ev, ok := eventFromRequest(req)
		if !ok {
			http.Error(w, "unknown event kind", http.StatusBadRequest)
			return
		}

		actions, err := s.machine.HandleEvent(r.Context(), req.UserID, ev)
		if err != nil {
			log.Error().Err(err).Int64("user_id", req.UserID).Msg("event handling failed")
			http.Error(w, "event handling failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"actions": actionResponses(actions)})
	}
}

func eventFromRequest(req EventRequest) (conversation.Event, bool) {
	switch req.Kind {
	case "text":
		return conversation.TextEvent(req.Text), true
	case "button":
		return conversation.ButtonEvent(req.Button), true
	case "document":
		if req.File == nil {
			return conversation.Event{}, false
		}
		return conversation.FileEvent(req.File.Filename, req.File.MIMEType, req.File.Data), true
	}
	return conversation.Event{}, false
}

func actionResponses(actions []conversation.Action) []ActionResponse {
	out := make([]ActionResponse, 0, len(actions))
	for _, a := range actions {
		out = append(out, ActionResponse{
			Kind:     actionKindName(a.Kind),
			Text:     a.Text,
			Path:     a.Path,
			Filename: a.Filename,
			Caption:  a.Caption,
			Keyboard: a.Keyboard,
		})
	}
	return out
}

func actionKindName(kind conversation.ActionKind) string {
	switch kind {
	case conversation.ActionSendText:
		return "send_text"
	case conversation.ActionSendImage:
		return "send_image"
	case conversation.ActionSendDocument:
		return "send_document"
	case conversation.ActionEditPrevious:
		return "edit_previous"
	case conversation.ActionClearButtons:
		return "clear_buttons"
	}
	return "unknown"
}
