package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/shoppulse/pipeline/api/transport"
	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/pkg/httpcontext"
	"github.com/shoppulse/pipeline/repository"
)

type SalesHandler struct {
	baseHandler
	sales repository.SalesRepository
}

func NewSalesHandler(sales repository.SalesRepository, adapter *httpcontext.Adapter, logger *zap.Logger) *SalesHandler {
	return &SalesHandler{
		baseHandler: newBaseHandler(adapter, logger),
		sales:       sales,
	}
}

// List serves GET /api/sales?timeUnit=day|week|month&period=last7|last30|last12.
func (h *SalesHandler) List(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	unit, err := parseTimeUnit(transport.QueryString(ctx, "timeUnit", "day"))
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	filter := repository.SalesFilter{
		TimeUnit: unit,
		Since:    periodLowerBound(unit, transport.QueryString(ctx, "period", ""), time.Now().UTC()),
		Limit:    transport.QueryInt(ctx, "limit", 0),
	}

	metrics, err := h.sales.ListSales(reqCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{
		"timeUnit": string(unit),
		"metrics":  metrics,
	})
}

func parseTimeUnit(raw string) (domain.TimeUnit, error) {
	switch raw {
	case "day", "date", "":
		return domain.UnitDate, nil
	case "week":
		return domain.UnitWeek, nil
	case "month":
		return domain.UnitMonth, nil
	default:
		return "", domain.NewError(domain.ErrCodeInvalid, "timeUnit must be day, week or month")
	}
}

// periodLowerBound converts a named period into the inclusive bucket lower
// bound for the given unit. Unknown periods return no bound.
func periodLowerBound(unit domain.TimeUnit, period string, now time.Time) string {
	var since time.Time
	switch period {
	case "last7":
		since = now.AddDate(0, 0, -7)
	case "last30":
		since = now.AddDate(0, 0, -30)
	case "last12":
		since = now.AddDate(0, -12, 0)
	default:
		return ""
	}

	switch unit {
	case domain.UnitWeek:
		return domain.WeekBucket(since)
	case domain.UnitMonth:
		return domain.MonthBucket(since)
	default:
		return domain.DateBucket(since)
	}
}
