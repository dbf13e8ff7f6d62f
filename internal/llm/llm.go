// Package llm abstracts text-completion providers behind a narrow contract:
// an ordered list of role-tagged messages in, a single text response out.
package llm

import "context"

// Message roles understood by every provider.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is one role-tagged prompt segment.
type Message struct {
	Role    string
	Content string
}

// Client is a synchronous text-completion provider. Implementations must
// honor ctx cancellation and bound the call with their own timeout. No
// structured-output guarantee: callers parse defensively.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}
