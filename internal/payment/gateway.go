package payment

import (
	"context"
	"fmt"
)

// LineItem is one priced line of a hosted checkout session. UnitAmount is in
// minor units.
type LineItem struct {
	Name       string
	UnitAmount int64
	Quantity   int64
	Images     []string
}

type SessionRequest struct {
	Currency   string
	LineItems  []LineItem
	SuccessURL string
	CancelURL  string
}

// Session is a created checkout session. URL is where the buyer is sent.
type Session struct {
	ID  string `json:"sessionId"`
	URL string `json:"url"`
}

// Gateway creates hosted checkout sessions with a payment processor.
type Gateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
}

// Error is a failure reported by the processor.
type Error struct {
	Message string
	Code    string
}

func (e *Error) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}
