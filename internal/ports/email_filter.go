package ports

import (
	"context"

	"github.com/mikey/mail-triage/internal/core"
)

// MessageFilter defines a triage front end that receives messages one at a time
type MessageFilter interface {
	// ProcessMessage triages a message and returns the classification
	ProcessMessage(ctx context.Context, msg *core.Message) (*core.ClassificationResult, error)

	// Start starts the filter service
	Start() error

	// Stop stops the filter service
	Stop() error
}

// MessageSource defines where a batch of messages to triage comes from
type MessageSource interface {
	// Load returns the messages of the batch, in source order
	Load(ctx context.Context) ([]*core.Message, error)

	// Name identifies the source in logs and reports
	Name() string
}
