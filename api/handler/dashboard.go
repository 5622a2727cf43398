package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/pkg/httpcontext"
	"github.com/shoppulse/pipeline/repository"
)

// DashboardHandler aggregates the read side into one summary payload.
type DashboardHandler struct {
	baseHandler
	sales         repository.SalesRepository
	cohorts       repository.CohortRepository
	inventory     repository.InventoryRepository
	notifications repository.NotificationRepository
}

func NewDashboardHandler(
	sales repository.SalesRepository,
	cohorts repository.CohortRepository,
	inventory repository.InventoryRepository,
	notifications repository.NotificationRepository,
	adapter *httpcontext.Adapter,
	logger *zap.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		baseHandler:   newBaseHandler(adapter, logger),
		sales:         sales,
		cohorts:       cohorts,
		inventory:     inventory,
		notifications: notifications,
	}
}

// Summary serves GET /api: recent daily sales, cohort insights, low-stock
// products, and the latest notifications. Partial failures degrade the
// payload instead of failing the whole request.
func (h *DashboardHandler) Summary(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	now := time.Now().UTC()
	payload := map[string]interface{}{"generatedAt": now}

	if metrics, err := h.sales.ListSales(reqCtx, repository.SalesFilter{
		TimeUnit: domain.UnitDate,
		Since:    domain.DateBucket(now.AddDate(0, 0, -7)),
	}); err == nil {
		payload["recentSales"] = metrics
	} else {
		h.logger.Warn("dashboard sales lookup failed", zap.Error(err))
	}

	if cohorts, err := h.cohorts.ListCohorts(reqCtx); err == nil {
		payload["cohorts"] = cohorts
	} else {
		h.logger.Warn("dashboard cohort lookup failed", zap.Error(err))
	}

	if lowStock, err := h.inventory.List(reqCtx, repository.InventoryFilter{Status: domain.StockLow}); err == nil {
		payload["lowStockCount"] = len(lowStock)
		payload["lowStockProducts"] = lowStock
	} else {
		h.logger.Warn("dashboard inventory lookup failed", zap.Error(err))
	}

	if notifications, err := h.notifications.List(reqCtx, repository.NotificationFilter{Limit: 10}); err == nil {
		payload["recentNotifications"] = notifications
	} else {
		h.logger.Warn("dashboard notification lookup failed", zap.Error(err))
	}

	h.respondSuccess(ctx, http.StatusOK, payload)
}
