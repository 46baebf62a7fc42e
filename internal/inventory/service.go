package inventory

import (
	"context"
	"fmt"
	"log"

	"github.com/MDSAM05/orderflow/internal/apperr"
	"github.com/MDSAM05/orderflow/internal/events"
)

type EventPublisher interface {
	PublishJSON(ctx context.Context, v any) error
}

// Service wraps the repository's atomic reserve with the InventoryReserved
// notification. The event is best-effort: a failed publish is logged and
// the decrement stands, since the event is not part of the consistency
// boundary.
type Service struct {
	repo   Repository
	pub    EventPublisher
	logger *log.Logger
}

func NewService(repo Repository, pub EventPublisher, logger *log.Logger) *Service {
	return &Service{repo: repo, pub: pub, logger: logger}
}

func (s *Service) Reserve(ctx context.Context, productID int64, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be positive", apperr.ErrInvalid)
	}

	if err := s.repo.Reserve(ctx, productID, quantity); err != nil {
		return err
	}

	if err := s.pub.PublishJSON(ctx, events.NewInventoryReserved(productID, quantity)); err != nil {
		s.logger.Printf("could not publish inventory event: %v", err)
	}
	return nil
}
