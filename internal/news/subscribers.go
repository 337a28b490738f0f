package news

import (
	"context"
	"time"

	"grn-daily/internal/model"
	"grn-daily/internal/store"

	"go.uber.org/zap"
)

type subscribeRequest struct {
	Email string `validate:"required,contains=@"`
}

// Subscribers is the append-only newsletter registry. No dedup and no
// unsubscribe here; the notification sender deduplicates recipients.
type Subscribers struct {
	store  store.Store
	logger *zap.Logger
}

func NewSubscribers(st store.Store, logger *zap.Logger) *Subscribers {
	return &Subscribers{store: st, logger: logger}
}

func (s *Subscribers) Subscribe(ctx context.Context, email string) error {
	if err := validate.Struct(subscribeRequest{Email: email}); err != nil {
		return &ValidationError{Reason: "email address must contain @"}
	}

	sub := model.Subscriber{
		Email:    email,
		JoinedAt: time.Now().UTC(),
	}
	if err := s.store.AddSubscriber(ctx, &sub); err != nil {
		return err
	}
	s.logger.Info("newsletter sign-up", zap.String("email", email))
	return nil
}

// ListAll returns every subscriber for the external notification sender.
func (s *Subscribers) ListAll(ctx context.Context) ([]model.Subscriber, error) {
	return s.store.Subscribers(ctx)
}
