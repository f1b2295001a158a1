package notification

import (
	"net/http"
	"strconv"
	"time"

	notificationerrors "personnel-management/internal/notification/errors"
	"personnel-management/internal/shared/apperror"
	"personnel-management/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const streamHeartbeat = 25 * time.Second

type Handler struct {
	service    Service
	subscriber Subscriber
	logger     *zap.Logger
}

func NewHandler(service Service, subscriber Subscriber, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("notification.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.handler")
	}
	return &Handler{service: service, subscriber: subscriber, logger: l}
}

func getActorID(c *gin.Context) string {
	actorID := c.GetString("user_id_validated")
	if actorID == "" {
		actorID = c.GetString("user_id")
	}
	return actorID
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("notification request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.ListByUser(c.Request.Context(), getActorID(c))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, meta := response.Paginate(resp, response.ParsePageQuery(c, 20, 100))
	response.Success(c, http.StatusOK, page, &meta)
}

func (h *Handler) MarkRead(c *gin.Context) {
	resp, err := h.service.MarkRead(c.Request.Context(), getActorID(c), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

// Stream relays the caller's notifications as server-sent events until the
// client goes away or the subscription ends.
func (h *Handler) Stream(c *gin.Context) {
	userID := getActorID(c)
	ctx := c.Request.Context()

	msgs, err := h.subscriber.Subscribe(ctx, userID)
	if err != nil {
		h.logger.Error("notification stream subscribe failed", zap.String("user_id", userID), zap.Error(err))
		h.writeServiceError(c, apperror.WrapAs(err, notificationerrors.ErrStreamUnavailable))
		return
	}

	// The server write timeout would otherwise cut long lived streams.
	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	h.logger.Debug("notification stream opened", zap.String("user_id", userID))
	defer h.logger.Debug("notification stream closed", zap.String("user_id", userID))

	ticker := time.NewTicker(streamHeartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.SSEvent("ping", strconv.FormatInt(time.Now().Unix(), 10))
			c.Writer.Flush()
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			c.SSEvent(msg.Event, string(msg.Payload))
			c.Writer.Flush()
		}
	}
}
