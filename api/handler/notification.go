package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/shoppulse/pipeline/api/transport"
	"github.com/shoppulse/pipeline/pkg/httpcontext"
	"github.com/shoppulse/pipeline/repository"
)

type NotificationHandler struct {
	baseHandler
	notifications repository.NotificationRepository
}

func NewNotificationHandler(notifications repository.NotificationRepository, adapter *httpcontext.Adapter, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		baseHandler:   newBaseHandler(adapter, logger),
		notifications: notifications,
	}
}

// List serves GET /api/notifications[?type=][&limit=].
func (h *NotificationHandler) List(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	records, err := h.notifications.List(reqCtx, repository.NotificationFilter{
		Type:  transport.QueryString(ctx, "type", ""),
		Limit: transport.QueryInt(ctx, "limit", 50),
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{"notifications": records})
}
