package models

// Credentials is the body of both /register/ and /login/.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// MessageResult is what register, login and upload answer with. Every field
// is optional; a missing message is displayed as the operation's fallback.
type MessageResult struct {
	Message  *string `json:"message,omitempty"`
	FilePath *string `json:"file_path,omitempty"`
	Detail   *string `json:"detail,omitempty"`
}

// Text returns the message or "" when the backend sent none.
func (r *MessageResult) Text() string {
	if r == nil || r.Message == nil {
		return ""
	}
	return *r.Message
}
