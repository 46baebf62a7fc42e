package order

import (
	"context"
	"fmt"
	"log"

	"github.com/MDSAM05/orderflow/internal/apperr"
	"github.com/MDSAM05/orderflow/internal/events"
	"github.com/MDSAM05/orderflow/internal/inventoryclient"
)

type Reserver interface {
	Reserve(ctx context.Context, productID int64, quantity int, authorization string) (inventoryclient.Outcome, error)
}

type EventPublisher interface {
	PublishJSON(ctx context.Context, v any) error
}

// Service sequences an order placement: reserve stock remotely, persist
// the order, announce it. Each stage's only recovery is failing the whole
// request; a reservation is not released when the insert afterwards fails.
type Service struct {
	repo     Repository
	reserver Reserver
	pub      EventPublisher
	logger   *log.Logger
}

func NewService(repo Repository, reserver Reserver, pub EventPublisher, logger *log.Logger) *Service {
	return &Service{repo: repo, reserver: reserver, pub: pub, logger: logger}
}

type PlaceRequest struct {
	ProductName string
	ProductID   int64
	Quantity    int
}

func (r PlaceRequest) validate() error {
	if r.ProductName == "" {
		return fmt.Errorf("%w: productName is required", apperr.ErrInvalid)
	}
	if r.ProductID < 1 {
		return fmt.Errorf("%w: productId must be positive", apperr.ErrInvalid)
	}
	if r.Quantity < 1 {
		return fmt.Errorf("%w: quantity must be positive", apperr.ErrInvalid)
	}
	return nil
}

// Place runs the placement for one request. The caller's Authorization
// header is forwarded on the reservation call so the product service
// authenticates the same principal. Success means reservation and
// persistence succeeded; the OrderCreated publish is best-effort.
func (s *Service) Place(ctx context.Context, username, authorization string, req PlaceRequest) (*Order, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	outcome, err := s.reserver.Reserve(ctx, req.ProductID, req.Quantity, authorization)
	switch outcome {
	case inventoryclient.Reserved:
	case inventoryclient.NotFound:
		return nil, fmt.Errorf("%w: product not found", apperr.ErrNotFound)
	case inventoryclient.InsufficientStock:
		return nil, fmt.Errorf("%w: insufficient stock", apperr.ErrConflict)
	default:
		if err != nil {
			s.logger.Printf("inventory reserve failed: %v", err)
		}
		return nil, fmt.Errorf("%w: inventory service unavailable", apperr.ErrUpstreamUnavailable)
	}

	o := &Order{
		ProductName: req.ProductName,
		ProductID:   req.ProductID,
		Quantity:    req.Quantity,
		Username:    username,
		Status:      StatusConfirmed,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		// Stock stays decremented; there is no compensating release.
		return nil, err
	}

	if err := s.pub.PublishJSON(ctx, events.NewOrderCreated(username, req.ProductID, req.Quantity)); err != nil {
		s.logger.Printf("could not publish order event: %v", err)
	}

	return o, nil
}
