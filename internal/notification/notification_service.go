package notification

import (
	"context"
	"strings"
	"time"

	notificationerrors "personnel-management/internal/notification/errors"
	"personnel-management/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DefaultPushTimeout = 3 * time.Second

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	Notify(ctx context.Context, userID, notificationType, message, link string) (NotificationResponse, error)
	ListByUser(ctx context.Context, userID string) ([]NotificationResponse, error)
	MarkRead(ctx context.Context, userID, id string) (NotificationResponse, error)
}

type service struct {
	repo        Repository
	channel     Channel
	pushTimeout time.Duration
	reads       singleflight.Group
	logger      *zap.Logger
}

// NewService builds the sink. channel may be nil, in which case
// notifications are only persisted.
func NewService(repo Repository, channel Channel, pushTimeout time.Duration, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	if pushTimeout <= 0 {
		pushTimeout = DefaultPushTimeout
	}
	return &service{
		repo:        repo,
		channel:     channel,
		pushTimeout: pushTimeout,
		logger:      l,
	}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	if rid := contextutil.GetRequestID(ctx); rid != "" {
		return s.logger.With(zap.String("request_id", rid))
	}
	return s.logger
}

func (s *service) Notify(ctx context.Context, userID, notificationType, message, link string) (NotificationResponse, error) {
	log := s.log(ctx)
	log.Debug("notify requested", zap.String("user_id", userID), zap.String("type", notificationType))

	if strings.TrimSpace(userID) == "" {
		return NotificationResponse{}, notificationerrors.ErrInvalidUserID
	}
	if strings.TrimSpace(notificationType) == "" {
		return NotificationResponse{}, notificationerrors.ErrInvalidType
	}

	n := &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      notificationType,
		Message:   message,
		Link:      link,
		IsRead:    false,
		CreatedAt: time.Now().UTC(),
	}
	created, err := s.repo.Create(ctx, n)
	if err != nil {
		err = mapRepositoryError(err)
		log.Error("notify persist failed", zap.String("user_id", userID), zap.Error(err))
		return NotificationResponse{}, err
	}

	resp := mapToResponse(*n)
	if !created {
		// Redelivered event: the stored row was already pushed once.
		log.Info("notify matched existing notification",
			zap.String("notification_id", resp.ID),
			zap.String("user_id", userID),
			zap.String("link", link),
		)
		return resp, nil
	}
	s.push(ctx, resp)

	log.Info("notify success",
		zap.String("notification_id", resp.ID),
		zap.String("user_id", userID),
		zap.String("type", notificationType),
	)
	return resp, nil
}

// push is best effort. The notification is already stored, so a slow or
// failing channel is only logged.
func (s *service) push(ctx context.Context, resp NotificationResponse) {
	if s.channel == nil {
		return
	}

	pushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.pushTimeout)
	defer cancel()

	if err := s.channel.Emit(pushCtx, resp.UserID, resp.Type, resp); err != nil {
		s.log(ctx).Warn("notification push failed",
			zap.String("notification_id", resp.ID),
			zap.String("user_id", resp.UserID),
			zap.Error(err),
		)
	}
}

// ListByUser coalesces concurrent reads for the same user into one query.
// The shared query does not inherit any caller's cancellation; each caller
// stops waiting when its own ctx is done.
func (s *service) ListByUser(ctx context.Context, userID string) ([]NotificationResponse, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, notificationerrors.ErrInvalidUserID
	}

	queryCtx := context.WithoutCancel(ctx)
	ch := s.reads.DoChan(userID, func() (any, error) {
		return s.repo.FindAllByUser(queryCtx, userID)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		s.log(ctx).Debug("list notifications abandoned", zap.String("user_id", userID), zap.Error(ctx.Err()))
		return nil, mapRepositoryError(ctx.Err())
	case res = <-ch:
	}

	v, err, shared := res.Val, res.Err, res.Shared
	if err != nil {
		err = mapRepositoryError(err)
		s.log(ctx).Error("list notifications failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if shared {
		s.log(ctx).Debug("list notifications shared", zap.String("user_id", userID))
	}

	list := v.([]Notification)
	resp := make([]NotificationResponse, len(list))
	for i, n := range list {
		resp[i] = mapToResponse(n)
	}
	return resp, nil
}

func (s *service) MarkRead(ctx context.Context, userID, id string) (NotificationResponse, error) {
	log := s.log(ctx)
	log.Debug("mark read requested", zap.String("notification_id", id), zap.String("user_id", userID))

	if _, err := uuid.Parse(id); err != nil {
		return NotificationResponse{}, notificationerrors.ErrNotificationNotFound
	}

	n, err := s.repo.MarkRead(ctx, id, userID)
	if err != nil {
		err = mapRepositoryError(err)
		log.Warn("mark read failed", zap.String("notification_id", id), zap.Error(err))
		return NotificationResponse{}, err
	}

	log.Info("mark read success", zap.String("notification_id", id))
	return mapToResponse(*n), nil
}

func mapToResponse(n Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID.String(),
		UserID:    n.UserID,
		Type:      n.Type,
		Message:   n.Message,
		Link:      n.Link,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
	}
}
