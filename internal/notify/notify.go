// Package notify delivers application notifications to the hiring inbox.
package notify

import "context"

type Attachment struct {
	Filename    string
	Path        string
	ContentType string
}

// Message is a plain-text email with optional file attachments.
type Message struct {
	From        string
	To          string
	Subject     string
	Body        string
	Attachments []Attachment
}

// Notifier sends a message exactly once. Implementations do not retry.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}
