package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"go.uber.org/zap"
)

type stripeGateway struct {
	api    *client.API
	logger *zap.Logger
}

// NewStripe returns a Gateway backed by Stripe Checkout.
func NewStripe(secretKey string, logger *zap.Logger) Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &stripeGateway{api: api, logger: logger}
}

func (g *stripeGateway) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.LineItems)),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(req.SuccessURL),
		CancelURL:          stripe.String(req.CancelURL),
		AutomaticTax: &stripe.CheckoutSessionAutomaticTaxParams{
			Enabled: stripe.Bool(false),
		},
	}
	params.Context = ctx
	for _, li := range req.LineItems {
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(req.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name:   stripe.String(li.Name),
					Images: stripe.StringSlice(li.Images),
				},
				UnitAmount: stripe.Int64(li.UnitAmount),
			},
			Quantity: stripe.Int64(li.Quantity),
		})
	}

	s, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		var serr *stripe.Error
		if errors.As(err, &serr) {
			g.logger.Warn("stripe: create checkout session rejected",
				zap.String("code", string(serr.Code)),
				zap.String("request_id", serr.RequestID),
				zap.String("message", serr.Msg))
			return nil, &Error{Message: serr.Msg, Code: string(serr.Code)}
		}
		g.logger.Error("stripe: create checkout session", zap.Error(err))
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	g.logger.Info("stripe: checkout session created", zap.String("session_id", s.ID), zap.Int("lines", len(req.LineItems)))
	return &Session{ID: s.ID, URL: s.URL}, nil
}
