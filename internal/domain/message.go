package domain

// FileRef identifies an uploaded file: the key it was stored under and
// the name the uploader gave it.
type FileRef struct {
	StoredName  string
	DisplayName string
}

// Message is an immutable chat event. It is created by the session
// handler once an inbound event is accepted and is never mutated or
// persisted; delivery is its whole life.
type Message struct {
	Sender string
	Body   string
	Kind   string // KindText or KindFile
	File   *FileRef
	Time   string // HH:MM:SS, assigned at acceptance
}

// Out renders the message as its outbound wire frame.
func (m Message) Out() *MessageOut {
	out := &MessageOut{
		Type: MsgTypeMessage,
		User: m.Sender,
		Text: m.Body,
		Time: m.Time,
	}
	if m.Kind == KindFile && m.File != nil {
		out.MessageType = KindFile
		out.Filename = m.File.StoredName
		out.OriginalName = m.File.DisplayName
	}
	return out
}
