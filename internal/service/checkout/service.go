package checkout

import (
	"context"
	"errors"
	"math"
	"strings"

	"go.uber.org/zap"

	"zizi-storefront/internal/domain"
	"zizi-storefront/internal/payment"
)

const (
	successPath = "/checkout/thank-you"
	cancelPath  = "/cart"
)

var (
	// ErrEmptyCart is returned when a session is requested for no items.
	ErrEmptyCart = errors.New("no items in cart")
	// ErrInvalidItem is returned for a line without a name or positive price.
	ErrInvalidItem = errors.New("invalid cart item")
)

// Error carries a processor failure back to the buyer.
type Error struct {
	Message string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// Service turns cart lines into a hosted payment session.
type Service struct {
	gateway       payment.Gateway
	currency      string
	defaultOrigin string
	assetHost     string
	logger        *zap.Logger
}

type Options struct {
	Currency      string
	DefaultOrigin string
	// AssetHost resolves relative image paths to absolute URLs. When empty
	// relative images are left out of the session.
	AssetHost string
}

func New(gateway payment.Gateway, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	currency := strings.ToLower(strings.TrimSpace(opts.Currency))
	if currency == "" {
		currency = "gbp"
	}
	origin := strings.TrimRight(strings.TrimSpace(opts.DefaultOrigin), "/")
	if origin == "" {
		origin = "http://localhost:3000"
	}
	return &Service{
		gateway:       gateway,
		currency:      currency,
		defaultOrigin: origin,
		assetHost:     strings.TrimRight(strings.TrimSpace(opts.AssetHost), "/"),
		logger:        logger,
	}
}

// CreateSession prices items and asks the gateway for a session that
// returns the buyer to origin. An empty origin uses the configured default.
func (s *Service) CreateSession(ctx context.Context, items []domain.CartItem, origin string) (*payment.Session, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	if origin == "" {
		origin = s.defaultOrigin
	}

	req := payment.SessionRequest{
		Currency:   s.currency,
		LineItems:  make([]payment.LineItem, 0, len(items)),
		SuccessURL: origin + successPath,
		CancelURL:  origin + cancelPath,
	}
	for _, it := range items {
		if strings.TrimSpace(it.Name) == "" || math.IsNaN(it.Price) || math.IsInf(it.Price, 0) || it.Price <= 0 {
			return nil, ErrInvalidItem
		}
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		li := payment.LineItem{
			Name:       it.Name,
			UnitAmount: int64(math.Round(it.Price * 100)),
			Quantity:   int64(qty),
			Images:     []string{},
		}
		if img := s.imageURL(it.Image); img != "" {
			li.Images = append(li.Images, img)
		}
		req.LineItems = append(req.LineItems, li)
	}

	s.logger.Info("checkout: creating session", zap.Int("items", len(items)), zap.String("origin", origin))
	session, err := s.gateway.CreateSession(ctx, req)
	if err != nil {
		var perr *payment.Error
		if errors.As(err, &perr) {
			return nil, &Error{Message: perr.Message, Details: perr.Code}
		}
		s.logger.Error("checkout: gateway failure", zap.Error(err))
		return nil, &Error{Message: err.Error()}
	}
	return session, nil
}

func (s *Service) imageURL(image string) string {
	image = strings.TrimSpace(image)
	switch {
	case image == "":
		return ""
	case strings.HasPrefix(image, "https://"), strings.HasPrefix(image, "http://"):
		return image
	case s.assetHost == "":
		return ""
	default:
		return s.assetHost + "/" + strings.TrimLeft(image, "/")
	}
}
