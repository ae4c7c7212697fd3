package payment

import (
	"context"
	"errors"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

type offlineGateway struct {
	logger *zap.Logger
}

// NewOffline returns a Gateway for local development without processor
// credentials. Every session succeeds and redirects straight to the
// success URL.
func NewOffline(logger *zap.Logger) Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &offlineGateway{logger: logger}
}

func (g *offlineGateway) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(req.LineItems) == 0 {
		return nil, errors.New("no line items")
	}
	id := "cs_offline_" + ulid.Make().String()
	g.logger.Info("offline payments: session created", zap.String("session_id", id), zap.Int("lines", len(req.LineItems)))
	return &Session{ID: id, URL: req.SuccessURL}, nil
}
