// Package display keeps the one message each browser session is showing.
// Every post overwrites the previous one and is pushed to subscribers; there
// is no history.
package display

import (
	"context"

	"docportal/internal/models"
)

type Board interface {
	// Post replaces the session's state and notifies its subscribers.
	Post(ctx context.Context, sessionID string, state models.ViewState) error
	// Latest returns the session's state; ok is false when nothing was posted.
	Latest(ctx context.Context, sessionID string) (state models.ViewState, ok bool, err error)
	// Subscribe streams future posts for the session until cancel is called
	// or ctx ends.
	Subscribe(ctx context.Context, sessionID string) (updates <-chan models.ViewState, cancel func(), err error)
}
