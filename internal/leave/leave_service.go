package leave

import (
	"context"
	"errors"
	"strings"
	"time"

	leaveerrors "personnel-management/internal/leave/errors"
	"personnel-management/internal/shared/contextutil"
	"personnel-management/internal/shared/txmanager"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultInitialDays    = 12
	DefaultPublishTimeout = 3 * time.Second
)

type Service interface {
	RequestLeave(ctx context.Context, userID string, req CreateLeaveRequest) (LeaveResponse, error)
	Decide(ctx context.Context, requestID string, decision Decision) (LeaveResponse, error)
	CurrentBalance(ctx context.Context, userID string) (BalanceResponse, error)
	EnsureBalance(ctx context.Context, userID string) (BalanceResponse, error)
	GetByID(ctx context.Context, actorID, id string, canReadAll bool) (LeaveResponse, error)
	ListByUser(ctx context.Context, userID string) ([]LeaveResponse, error)
}

type ServiceConfig struct {
	InitialDays    int
	PublishTimeout time.Duration
}

type service struct {
	tx             txmanager.Manager
	repo           Repository
	balances       BalanceRepository
	publisher      EventPublisher
	initialDays    int
	publishTimeout time.Duration
	logger         *zap.Logger
}

func NewService(tx txmanager.Manager, repo Repository, balances BalanceRepository, cfg ServiceConfig, logger ...*zap.Logger) Service {
	return NewServiceWithPublisher(tx, repo, balances, NewNoopEventPublisher(), cfg, logger...)
}

func NewServiceWithPublisher(
	tx txmanager.Manager,
	repo Repository,
	balances BalanceRepository,
	publisher EventPublisher,
	cfg ServiceConfig,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	if publisher == nil {
		publisher = NewNoopEventPublisher()
	}
	if cfg.InitialDays <= 0 {
		cfg.InitialDays = DefaultInitialDays
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = DefaultPublishTimeout
	}
	return &service{
		tx:             tx,
		repo:           repo,
		balances:       balances,
		publisher:      publisher,
		initialDays:    cfg.InitialDays,
		publishTimeout: cfg.PublishTimeout,
		logger:         l,
	}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	if rid := contextutil.GetRequestID(ctx); rid != "" {
		return s.logger.With(zap.String("request_id", rid))
	}
	return s.logger
}

func (s *service) RequestLeave(ctx context.Context, userID string, req CreateLeaveRequest) (LeaveResponse, error) {
	log := s.log(ctx)
	log.Debug("request leave requested",
		zap.String("user_id", userID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	if strings.TrimSpace(userID) == "" {
		return LeaveResponse{}, leaveerrors.ErrInvalidUserID
	}

	startDate, endDate, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		log.Warn("request leave validation failed", zap.String("user_id", userID), zap.Error(err))
		return LeaveResponse{}, err
	}

	balance, err := s.balances.Ensure(ctx, userID, s.initialDays)
	if err != nil {
		log.Error("request leave ensure balance failed", zap.String("user_id", userID), zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}

	if balance.TotalDays <= 0 {
		log.Warn("request leave rejected, no days remaining", zap.String("user_id", userID))
		return LeaveResponse{}, leaveerrors.ErrInsufficientBalance
	}

	days := InclusiveDays(startDate, endDate)
	if balance.TotalDays < days {
		log.Warn("request leave rejected, insufficient balance",
			zap.String("user_id", userID),
			zap.Int("remaining_days", balance.TotalDays),
			zap.Int("requested_days", days),
		)
		return LeaveResponse{}, leaveerrors.ErrInsufficientBalance
	}

	lr := &LeaveRequest{
		ID:        uuid.New(),
		UserID:    userID,
		LeaveType: strings.TrimSpace(req.LeaveType),
		StartDate: startDate,
		EndDate:   endDate,
		Status:    StatusPending,
	}
	if err := s.repo.Create(ctx, lr); err != nil {
		log.Error("request leave persist failed", zap.String("user_id", userID), zap.Error(err))
		return LeaveResponse{}, mapRepositoryError(err)
	}

	log.Info("request leave success",
		zap.String("leave_id", lr.ID.String()),
		zap.String("user_id", userID),
		zap.Int("days", days),
	)
	return mapToResponse(*lr), nil
}

// Decide finalizes a pending request. The request row is locked for the
// whole transaction, so concurrent decisions on one id serialize and only
// the first one debits the balance.
func (s *service) Decide(ctx context.Context, requestID string, decision Decision) (LeaveResponse, error) {
	log := s.log(ctx)
	log.Debug("decide leave requested",
		zap.String("leave_id", requestID),
		zap.String("decision", decision.Status()),
	)

	if _, err := uuid.Parse(requestID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
	}

	var decided *LeaveRequest
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		lr, err := s.repo.FindByIDForUpdate(ctx, requestID)
		if err != nil {
			return mapRepositoryError(err)
		}

		if !lr.IsPending() {
			return leaveerrors.ErrAlreadyProcessed
		}

		if err := decision.validate(); err != nil {
			return err
		}

		if decision.IsApproval() {
			if _, err := s.balances.Debit(ctx, lr.UserID, lr.Days()); err != nil {
				return mapRepositoryError(err)
			}
		}

		out, err := s.repo.Finalize(ctx, requestID, decision.Status(), decision.rejectReason())
		if err != nil {
			return mapRepositoryError(err)
		}
		decided = out
		return nil
	})
	if err != nil {
		err = mapRepositoryError(err)
		if errors.Is(err, leaveerrors.ErrPersistenceFailure) {
			log.Error("decide leave persist failed", zap.String("leave_id", requestID), zap.Error(err))
		} else {
			log.Warn("decide leave rejected",
				zap.String("leave_id", requestID),
				zap.String("decision", decision.Status()),
				zap.Error(err),
			)
		}
		return LeaveResponse{}, err
	}

	s.publishDecided(ctx, *decided)

	log.Info("decide leave success",
		zap.String("leave_id", requestID),
		zap.String("user_id", decided.UserID),
		zap.String("status", decided.Status),
	)
	return mapToResponse(*decided), nil
}

// publishDecided runs after commit on a context detached from the caller.
// Failures are logged only; the decision is already durable.
func (s *service) publishDecided(ctx context.Context, lr LeaveRequest) {
	event := NewLeaveDecidedEvent(lr)
	detached := context.WithoutCancel(ctx)
	log := s.log(ctx)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("publish leave decided panicked", zap.String("leave_id", event.RequestID), zap.Any("panic", r))
			}
		}()

		pubCtx, cancel := context.WithTimeout(detached, s.publishTimeout)
		defer cancel()

		if err := s.publisher.PublishLeaveDecided(pubCtx, event); err != nil {
			log.Warn("publish leave decided failed",
				zap.String("leave_id", event.RequestID),
				zap.String("user_id", event.UserID),
				zap.Error(err),
			)
			return
		}
		log.Debug("leave decided published", zap.String("leave_id", event.RequestID))
	}()
}

func (s *service) CurrentBalance(ctx context.Context, userID string) (BalanceResponse, error) {
	if strings.TrimSpace(userID) == "" {
		return BalanceResponse{}, leaveerrors.ErrInvalidUserID
	}

	remaining, err := s.balances.Remaining(ctx, userID)
	if err != nil {
		s.log(ctx).Error("current balance lookup failed", zap.String("user_id", userID), zap.Error(err))
		return BalanceResponse{}, mapRepositoryError(err)
	}
	return BalanceResponse{UserID: userID, RemainingDays: remaining}, nil
}

func (s *service) EnsureBalance(ctx context.Context, userID string) (BalanceResponse, error) {
	if strings.TrimSpace(userID) == "" {
		return BalanceResponse{}, leaveerrors.ErrInvalidUserID
	}

	balance, err := s.balances.Ensure(ctx, userID, s.initialDays)
	if err != nil {
		s.log(ctx).Error("ensure balance failed", zap.String("user_id", userID), zap.Error(err))
		return BalanceResponse{}, mapRepositoryError(err)
	}

	s.log(ctx).Info("ensure balance success", zap.String("user_id", userID), zap.Int("remaining_days", balance.TotalDays))
	return BalanceResponse{UserID: balance.UserID, RemainingDays: balance.TotalDays}, nil
}

// GetByID hides requests of other users unless canReadAll is set.
func (s *service) GetByID(ctx context.Context, actorID, id string, canReadAll bool) (LeaveResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
	}

	lr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}
	if !canReadAll && lr.UserID != actorID {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
	}
	return mapToResponse(*lr), nil
}

func (s *service) ListByUser(ctx context.Context, userID string) ([]LeaveResponse, error) {
	reqs, err := s.repo.FindAllByUser(ctx, userID)
	if err != nil {
		s.log(ctx).Error("list leave requests failed", zap.String("user_id", userID), zap.Error(err))
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(reqs), nil
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := parseDate(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, leaveerrors.ErrInvalidRange
	}
	return startDate, endDate, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(v))
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:           l.ID.String(),
		UserID:       l.UserID,
		LeaveType:    l.LeaveType,
		StartDate:    l.StartDate.Format(DateLayout),
		EndDate:      l.EndDate.Format(DateLayout),
		TotalDays:    l.Days(),
		Status:       l.Status,
		RejectReason: l.RejectReason,
		CreatedAt:    l.CreatedAt.UTC().Format(time.RFC3339),
	}
	if l.DecidedAt != nil {
		v := l.DecidedAt.UTC().Format(time.RFC3339)
		resp.DecidedAt = &v
	}
	return resp
}

func mapToListResponse(reqs []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(reqs))
	for i, r := range reqs {
		resp[i] = mapToResponse(r)
	}
	return resp
}
