package notification

import (
	"context"
	"time"

	"tradehub-be/internal/access"
	"tradehub-be/internal/apperr"
	"tradehub-be/internal/logger"
	"tradehub-be/internal/metrics"
	"tradehub-be/internal/validation"

	"go.uber.org/zap"
)

const listLimit = 100

// Notifier is what other services use to reach a user.
type Notifier interface {
	Notify(ctx context.Context, in Input) error
}

type Service interface {
	Notifier
	ListMine(ctx context.Context, actor access.Actor, unreadOnly bool) ([]*Notification, error)
	MarkRead(ctx context.Context, actor access.Actor, id string) (*Notification, error)
}

type service struct {
	repo   Repository
	mailer Mailer
	now    func() time.Time
}

func NewService(repo Repository, mailer Mailer) Service {
	if mailer == nil {
		mailer = LogMailer{}
	}
	return &service{repo: repo, mailer: mailer, now: time.Now}
}

// Notify stores the notification and mails it when an address is known.
// Mail failures are logged and counted, never returned.
func (s *service) Notify(ctx context.Context, in Input) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Notify"),
		zap.String("user_id", in.UserID),
		zap.String("kind", string(in.Kind)),
	)

	if err := validation.Struct(in); err != nil {
		return err
	}

	n := &Notification{
		UserID:  in.UserID,
		Kind:    in.Kind,
		Title:   in.Title,
		Message: in.Message,
		Link:    in.Link,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		log.Error("failed to store notification", zap.Error(err))
		return err
	}

	if in.Email != "" {
		err := s.mailer.Send(ctx, Email{To: in.Email, Subject: in.Title, Body: in.Message})
		if err != nil {
			metrics.Default.Counter(metrics.EmailsFailed).Inc()
			log.Error("failed to send notification email", zap.Error(err))
		}
	}

	log.Debug("notification stored", zap.String("notification_id", n.ID))
	return nil
}

func (s *service) ListMine(ctx context.Context, actor access.Actor, unreadOnly bool) ([]*Notification, error) {
	if actor.IsAnonymous() {
		return nil, apperr.Unauthenticated()
	}
	if err := access.Check(actor, access.EntityNotification, access.OpRead, true, false); err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, actor.UserID, unreadOnly, listLimit)
}

// MarkRead flags one of the actor's notifications as read. Marking an
// already read notification is a no-op.
func (s *service) MarkRead(ctx context.Context, actor access.Actor, id string) (*Notification, error) {
	if actor.IsAnonymous() {
		return nil, apperr.Unauthenticated()
	}

	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Check(actor, access.EntityNotification, access.OpUpdate, n.UserID == actor.UserID, false); err != nil {
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}

	now := s.now().UTC()
	n.IsRead = true
	n.ReadAt = &now
	if err := s.repo.Update(ctx, n); err != nil {
		logger.FromCtx(ctx).Error("failed to mark notification read", zap.String("notification_id", id), zap.Error(err))
		return nil, err
	}
	return n, nil
}
