package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"orderdesk/internal/domain"
	"orderdesk/internal/dto"
)

type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (string, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	Update(ctx context.Context, id string, mutate func(*domain.Order) error) (*domain.Order, error)
	Sweep(ctx context.Context, ttl time.Duration) (int, error)
}

// StaffNotifier delivers the summary of a freshly submitted order to staff.
type StaffNotifier interface {
	NotifySubmitted(ctx context.Context, order *domain.Order) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event dto.OrderEvent) error
}

type TransitionRecorder interface {
	ObserveTransition(state string)
}

type SubmitResult struct {
	Order *domain.Order
	// Delivered is false when the staff notification could not be sent.
	Delivered bool
}

type LifecycleService struct {
	repo      OrderRepository
	notifier  StaffNotifier
	publisher EventPublisher
	recorder  TransitionRecorder
	logger    *zap.Logger
	now       func() time.Time
}

func NewLifecycleService(
	repo OrderRepository,
	notifier StaffNotifier,
	publisher EventPublisher,
	recorder TransitionRecorder,
	logger *zap.Logger,
) *LifecycleService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &LifecycleService{
		repo:      repo,
		notifier:  notifier,
		publisher: publisher,
		recorder:  recorder,
		logger:    logger,
		now:       time.Now,
	}
}

// Create persists a validated draft in state new.
func (s *LifecycleService) Create(ctx context.Context, draft *domain.Order) (*domain.Order, error) {
	id, err := s.repo.Create(ctx, draft)
	if err != nil {
		s.logger.Error("failed to create order", zap.Error(err))
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("orderId", id),
		zap.String("source", draft.Source),
		zap.Int64("total", draft.Total),
		zap.Int("itemCount", len(draft.Items)),
	)
	s.emit(ctx, draft)

	return draft, nil
}

func (s *LifecycleService) Get(ctx context.Context, id string) (*domain.Order, error) {
	return s.repo.Get(ctx, id)
}

// Confirm is the web shortcut from new straight to confirmed. Confirming an
// already confirmed order succeeds without writing.
func (s *LifecycleService) Confirm(ctx context.Context, id string) (*domain.Order, error) {
	alreadyConfirmed := false
	order, err := s.repo.Update(ctx, id, func(o *domain.Order) error {
		if o.State == domain.StateConfirmed {
			alreadyConfirmed = true
			return errUnchanged
		}
		return o.Apply(domain.EventWebConfirmed)
	})
	if alreadyConfirmed {
		return s.repo.Get(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	s.logTransition(order)
	s.emit(ctx, order)
	return order, nil
}

func (s *LifecycleService) Cancel(ctx context.Context, id string) (*domain.Order, error) {
	return s.transition(ctx, id, domain.EventCancelled, nil)
}

// Submit hands a completed bot draft to staff. The draft itself is left
// untouched so a failed submission can be retried from the same session.
func (s *LifecycleService) Submit(ctx context.Context, draft *domain.Order) (*SubmitResult, error) {
	order := *draft
	order.Items = append([]domain.CartItem(nil), draft.Items...)
	if err := order.Apply(domain.EventSubmitted); err != nil {
		return nil, err
	}

	id, err := s.repo.Create(ctx, &order)
	if err != nil {
		s.logger.Error("failed to persist submitted order", zap.Error(err))
		return nil, err
	}

	s.logger.Info("order submitted to staff",
		zap.String("orderId", id),
		zap.Int64("total", order.Total),
		zap.String("paymentMethod", string(order.PaymentMethod)),
	)
	s.emit(ctx, &order)

	delivered := true
	if err := s.notifier.NotifySubmitted(ctx, &order); err != nil {
		delivered = false
		s.logger.Error("failed to notify staff", zap.String("orderId", id), zap.Error(err))
	}

	return &SubmitResult{Order: &order, Delivered: delivered}, nil
}

func (s *LifecycleService) StaffConfirm(ctx context.Context, id string) (*domain.Order, error) {
	return s.transition(ctx, id, domain.EventStaffConfirmed, nil)
}

func (s *LifecycleService) StaffReject(ctx context.Context, id string) (*domain.Order, error) {
	return s.transition(ctx, id, domain.EventStaffRejected, nil)
}

func (s *LifecycleService) AttachTracking(ctx context.Context, id string, rawTrackingID string) (*domain.Order, error) {
	trackingID, err := domain.ValidateTrackingID(rawTrackingID)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, id, domain.EventTrackingAttached, func(o *domain.Order) {
		o.TrackingID = trackingID
	})
}

func (s *LifecycleService) Close(ctx context.Context, id string) (*domain.Order, error) {
	return s.transition(ctx, id, domain.EventClosed, nil)
}

// Sweep removes expired orders right away instead of waiting for the next
// store access.
func (s *LifecycleService) Sweep(ctx context.Context, ttl time.Duration) (int, error) {
	removed, err := s.repo.Sweep(ctx, ttl)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("expired orders swept", zap.Int("removed", removed), zap.Duration("ttl", ttl))
	}
	return removed, nil
}

func (s *LifecycleService) transition(ctx context.Context, id string, event domain.Event, apply func(*domain.Order)) (*domain.Order, error) {
	order, err := s.repo.Update(ctx, id, func(o *domain.Order) error {
		if err := o.Apply(event); err != nil {
			return err
		}
		if apply != nil {
			apply(o)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("order transition failed",
			zap.String("orderId", id),
			zap.String("event", string(event)),
			zap.Error(err),
		)
		return nil, err
	}

	s.logTransition(order)
	s.emit(ctx, order)
	return order, nil
}

func (s *LifecycleService) logTransition(order *domain.Order) {
	s.logger.Info("order transitioned",
		zap.String("orderId", order.ID),
		zap.String("status", string(order.State)),
	)
}

// emit publishes the event for the order's current state. Publish failures
// never fail the operation.
func (s *LifecycleService) emit(ctx context.Context, order *domain.Order) {
	s.recorder.ObserveTransition(string(order.State))

	event := dto.OrderEvent{
		EventID:    uuid.NewString(),
		OrderID:    order.ID,
		Type:       eventTypeFor(order.State),
		Status:     string(order.State),
		Total:      order.Total,
		Currency:   order.Currency,
		Source:     order.Source,
		TrackingID: order.TrackingID,
		CreatedAt:  s.now().UTC(),
	}

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish order event",
			zap.String("orderId", order.ID),
			zap.String("type", event.Type),
			zap.Error(err),
		)
	}
}

func eventTypeFor(state domain.State) string {
	switch state {
	case domain.StateSubmittedToStaff:
		return dto.EventOrderSubmitted
	case domain.StateConfirmed:
		return dto.EventOrderConfirmed
	case domain.StateNeedsClarification:
		return dto.EventOrderNeedsClarification
	case domain.StateShipped:
		return dto.EventOrderShipped
	case domain.StateClosed:
		return dto.EventOrderClosed
	case domain.StateCancelled:
		return dto.EventOrderCancelled
	}
	return dto.EventOrderCreated
}

var errUnchanged = errors.New("order unchanged")

type NopNotifier struct{}

func (NopNotifier) NotifySubmitted(context.Context, *domain.Order) error { return nil }

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, dto.OrderEvent) error { return nil }

type nopRecorder struct{}

func (nopRecorder) ObserveTransition(string) {}
