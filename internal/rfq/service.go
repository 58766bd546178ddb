package rfq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tradehub-be/internal/access"
	"tradehub-be/internal/apperr"
	"tradehub-be/internal/logger"
	"tradehub-be/internal/metrics"
	"tradehub-be/internal/notification"
	"tradehub-be/internal/user"
	"tradehub-be/internal/utils"
	"tradehub-be/internal/validation"

	"go.uber.org/zap"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

type UserLookup interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

type Service interface {
	Create(ctx context.Context, actor access.Actor, in CreateInput) (*RFQ, error)
	Get(ctx context.Context, actor access.Actor, id string) (*RFQ, error)
	List(ctx context.Context, actor access.Actor, filter ListFilter) ([]*RFQ, error)
	StartReview(ctx context.Context, actor access.Actor, id string) (*RFQ, error)
	Quote(ctx context.Context, actor access.Actor, id string, in QuoteInput) (*RFQ, error)
	Accept(ctx context.Context, actor access.Actor, id string, note *string) (*RFQ, error)
	Reject(ctx context.Context, actor access.Actor, id string, note *string) (*RFQ, error)
	ExpireStale(ctx context.Context) (int, error)
}

type service struct {
	repo     Repository
	users    UserLookup
	notifier notification.Notifier
	window   time.Duration
	now      func() time.Time
}

// NewService builds the RFQ service. window is how long an RFQ stays open
// before it expires.
func NewService(repo Repository, users UserLookup, notifier notification.Notifier, window time.Duration) Service {
	return &service{repo: repo, users: users, notifier: notifier, window: window, now: time.Now}
}

func (s *service) Create(ctx context.Context, actor access.Actor, in CreateInput) (*RFQ, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateRFQ"),
		zap.String("user_id", actor.UserID),
	)

	if err := access.Check(actor, access.EntityRFQ, access.OpCreate, false, false); err != nil {
		log.Warn("create rfq denied", zap.String("role", string(actor.Role)))
		return nil, err
	}
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerEmail = utils.NormalizeEmail(in.CustomerEmail)
	in.ProductName = strings.TrimSpace(in.ProductName)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if in.DeliveryDate != nil && !in.DeliveryDate.After(now) {
		return nil, ErrPastDelivery
	}

	customerID := actor.UserID
	if actor.Role.IsStaff() && in.CustomerID != nil && *in.CustomerID != "" {
		customerID = *in.CustomerID
	}

	r := &RFQ{
		RFQNumber:     utils.GenerateReference(utils.PrefixRFQ),
		CustomerID:    customerID,
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		CustomerPhone: in.CustomerPhone,
		CompanyName:   in.CompanyName,
		ProductName:   in.ProductName,
		ProductID:     in.ProductID,
		Quantity:      in.Quantity,
		Unit:          strings.TrimSpace(in.Unit),
		DeliveryDate:  in.DeliveryDate,
		Destination:   in.Destination,
		Message:       in.Message,
		Status:        StatusNew,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		log.Error("failed to create rfq", zap.Error(err))
		return nil, err
	}

	log.Info("rfq created", zap.String("rfq_id", r.ID), zap.String("rfq_number", r.RFQNumber))
	s.notify(ctx, r.CustomerID, r.CustomerEmail, r,
		"RFQ "+r.RFQNumber+" received",
		fmt.Sprintf("We received your request for %s %s of %s and will get back to you with a quote.",
			r.Quantity.String(), r.Unit, r.ProductName))
	return r, nil
}

// Get returns an RFQ, expiring it first if its window has passed.
func (s *service) Get(ctx context.Context, actor access.Actor, id string) (*RFQ, error) {
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Check(actor, access.EntityRFQ, access.OpRead, r.OwnedBy(actor.UserID), false); err != nil {
		return nil, err
	}
	s.expireIfDue(ctx, r)
	return r, nil
}

func (s *service) List(ctx context.Context, actor access.Actor, filter ListFilter) ([]*RFQ, error) {
	if actor.IsAnonymous() {
		return nil, apperr.Unauthenticated()
	}

	isOwner := false
	if !actor.Role.IsStaff() {
		filter.CustomerID = utils.StrPtr(actor.UserID)
		isOwner = true
	}
	if err := access.Check(actor, access.EntityRFQ, access.OpRead, isOwner, false); err != nil {
		return nil, err
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, apperr.Validation("status", "invalid rfq status %q", *filter.Status)
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultLimit
	} else if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	list, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for _, r := range list {
		s.expireIfDue(ctx, r)
	}
	return list, nil
}

func (s *service) StartReview(ctx context.Context, actor access.Actor, id string) (*RFQ, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "StartRFQReview"),
		zap.String("rfq_id", id),
	)

	r, err := s.loadForBackOffice(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := Transition(r.Status, StatusReviewing); err != nil {
		log.Warn("rfq transition rejected", zap.Error(err))
		return nil, err
	}

	r.Status = StatusReviewing
	if err := s.repo.Update(ctx, r); err != nil {
		log.Error("failed to start rfq review", zap.Error(err))
		return nil, err
	}
	log.Info("rfq under review", zap.String("by", actor.UserID))
	return r, nil
}

// Quote sets price, quoting user and status in one write. Quoting an RFQ that
// is already quoted replaces the previous quote.
func (s *service) Quote(ctx context.Context, actor access.Actor, id string, in QuoteInput) (*RFQ, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "QuoteRFQ"),
		zap.String("rfq_id", id),
	)

	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := checkQuotePair(in.QuotedPrice, in.QuotedBy); err != nil {
		return nil, err
	}
	if in.QuotedPrice == nil {
		return nil, apperr.New(apperr.KindIncompleteQuote, "quotedPrice", "a quote needs quotedPrice and quotedBy")
	}
	if in.QuotedPrice.IsNegative() {
		return nil, apperr.Validation("quotedPrice", "quotedPrice must not be negative")
	}

	r, err := s.loadForBackOffice(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if err := Transition(r.Status, StatusQuoted); err != nil {
		log.Warn("rfq transition rejected", zap.Error(err))
		return nil, err
	}
	if err := s.checkQuoter(ctx, *in.QuotedBy); err != nil {
		log.Warn("quote rejected", zap.String("quoted_by", *in.QuotedBy), zap.Error(err))
		return nil, err
	}

	if r.Status == StatusQuoted {
		log.Info("replacing existing quote",
			zap.String("previous_by", utils.PtrString(r.QuotedBy)),
			zap.String("previous_price", r.QuotedPrice.String()),
		)
	}

	now := s.now().UTC()
	price := in.QuotedPrice.Round(2)
	r.QuotedPrice = &price
	r.QuotedBy = in.QuotedBy
	r.QuotedAt = &now
	r.QuoteCurrency = in.Currency
	r.QuoteNotes = in.Notes
	r.Status = StatusQuoted

	if err := s.repo.Update(ctx, r); err != nil {
		log.Error("failed to save quote", zap.Error(err))
		return nil, err
	}

	log.Info("rfq quoted", zap.String("price", price.String()), zap.String("quoted_by", *r.QuotedBy))
	amount := price.StringFixed(2)
	if r.QuoteCurrency != nil {
		amount = *r.QuoteCurrency + " " + amount
	}
	s.notify(ctx, r.CustomerID, r.CustomerEmail, r,
		"Quote ready for "+r.RFQNumber,
		fmt.Sprintf("We quoted %s per %s for %s. Accept or reject the quote from your account.", amount, r.Unit, r.ProductName))
	return r, nil
}

func (s *service) Accept(ctx context.Context, actor access.Actor, id string, note *string) (*RFQ, error) {
	return s.respond(ctx, actor, id, StatusAccepted, note)
}

func (s *service) Reject(ctx context.Context, actor access.Actor, id string, note *string) (*RFQ, error) {
	return s.respond(ctx, actor, id, StatusRejected, note)
}

// respond records the owning customer's decision on a quote.
func (s *service) respond(ctx context.Context, actor access.Actor, id string, to Status, note *string) (*RFQ, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "RespondToQuote"),
		zap.String("rfq_id", id),
		zap.String("decision", string(to)),
	)

	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	isOwner := r.OwnedBy(actor.UserID)
	if err := access.Check(actor, access.EntityRFQ, access.OpUpdate, isOwner, false); err != nil {
		return nil, err
	}
	if !isOwner {
		return nil, apperr.PermissionDenied(string(access.EntityRFQ), "respond to quote on")
	}

	s.expireIfDue(ctx, r)
	if err := Transition(r.Status, to); err != nil {
		log.Warn("rfq transition rejected", zap.String("from", string(r.Status)), zap.Error(err))
		return nil, err
	}

	now := s.now().UTC()
	r.Status = to
	r.ResponseNote = note
	r.ClosedAt = &now
	if err := s.repo.Update(ctx, r); err != nil {
		log.Error("failed to record quote decision", zap.Error(err))
		return nil, err
	}

	log.Info("quote decision recorded")
	if r.QuotedBy != nil {
		s.notify(ctx, *r.QuotedBy, "", r,
			"Quote "+string(to)+" for "+r.RFQNumber,
			fmt.Sprintf("%s %s the quote for %s.", r.CustomerName, to, r.ProductName))
	}
	return r, nil
}

// ExpireStale expires every open RFQ whose window has passed and returns how
// many were expired.
func (s *service) ExpireStale(ctx context.Context) (int, error) {
	now := s.now()
	var due []*RFQ
	err := s.repo.EachOpen(ctx, func(r *RFQ) error {
		if r.Expired(now, s.window) {
			due = append(due, r)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	n := 0
	for _, r := range due {
		if s.expire(ctx, r) == nil {
			n++
		}
	}
	return n, nil
}

func (s *service) loadForBackOffice(ctx context.Context, actor access.Actor, id string) (*RFQ, error) {
	if err := access.Check(actor, access.EntityRFQ, access.OpUpdate, false, false); err != nil {
		return nil, err
	}
	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.expireIfDue(ctx, r)
	return r, nil
}

func (s *service) checkQuoter(ctx context.Context, userID string) error {
	u, err := s.users.GetByID(ctx, userID)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return ErrQuoterNotStaff
	case err != nil:
		return err
	case !u.Role.IsStaff():
		return ErrQuoterNotStaff
	}
	return nil
}

// expireIfDue moves r to expired when its time has passed. The in-memory
// value reflects the expiry even if persisting it fails.
func (s *service) expireIfDue(ctx context.Context, r *RFQ) {
	if r.Expired(s.now(), s.window) {
		_ = s.expire(ctx, r)
	}
}

func (s *service) expire(ctx context.Context, r *RFQ) error {
	from := r.Status
	now := s.now().UTC()
	r.Status = StatusExpired
	r.ClosedAt = &now

	log := logger.FromCtx(ctx).With(zap.String("rfq_id", r.ID), zap.String("from", string(from)))
	if err := s.repo.Update(ctx, r); err != nil {
		log.Error("failed to persist rfq expiry", zap.Error(err))
		return err
	}
	metrics.Default.Counter(metrics.RFQsExpired).Inc()
	log.Info("rfq expired")
	return nil
}

func (s *service) notify(ctx context.Context, userID, email string, r *RFQ, title, message string) {
	if s.notifier == nil || userID == "" {
		return
	}
	err := s.notifier.Notify(ctx, notification.Input{
		UserID:  userID,
		Email:   email,
		Kind:    notification.KindRFQ,
		Title:   title,
		Message: message,
		Link:    utils.StrPtr("/rfqs/" + r.ID),
	})
	if err != nil {
		logger.FromCtx(ctx).Warn("rfq notification failed", zap.String("rfq_id", r.ID), zap.Error(err))
	}
}
