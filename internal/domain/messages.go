package domain

// WebSocket frame types from client.
const (
	MsgTypeJoin        = "join"
	MsgTypeMessage     = "message"
	MsgTypeFileMessage = "file_message"
)

// WebSocket frame types to client. MsgTypeMessage is shared: chat
// messages, file messages and system notices all go out as "message".
const (
	MsgTypeUserUpdate = "user_update"
	MsgTypeError      = "error"
)

// Error codes
const (
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeAlreadyJoined = "ALREADY_JOINED"
)

// SystemUser is the sender name on system notices.
const SystemUser = "System"

// Message kinds.
const (
	KindText = "text"
	KindFile = "file"
)

// BaseFrame is the base structure for all WebSocket frames.
type BaseFrame struct {
	Type string `json:"type"`
}

// Client -> Server frames

type JoinFrame struct {
	Type     string `json:"type"`
	Username string `json:"username,omitempty"`
}

type MessageFrame struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type FileMessageFrame struct {
	Type         string `json:"type"`
	Text         string `json:"text"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
}

// Server -> Client frames

// UserUpdate carries the full membership snapshot; it replaces any
// previously delivered roster.
type UserUpdate struct {
	Type  string   `json:"type"`
	Users []string `json:"users"`
}

// MessageOut is a chat message, file message or system notice.
type MessageOut struct {
	Type         string `json:"type"`
	User         string `json:"user"`
	Text         string `json:"text"`
	Time         string `json:"time"`
	MessageType  string `json:"message_type,omitempty"` // "file" for file messages
	Filename     string `json:"filename,omitempty"`
	OriginalName string `json:"original_name,omitempty"`
}

type ErrorFrame struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewErrorFrame(code, message string) *ErrorFrame {
	return &ErrorFrame{
		Type:    MsgTypeError,
		Code:    code,
		Message: message,
	}
}
