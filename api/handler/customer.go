package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/shoppulse/pipeline/api/transport"
	"github.com/shoppulse/pipeline/pkg/httpcontext"
	"github.com/shoppulse/pipeline/repository"
)

type CustomerHandler struct {
	baseHandler
	cohorts repository.CohortRepository
}

func NewCustomerHandler(cohorts repository.CohortRepository, adapter *httpcontext.Adapter, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		baseHandler: newBaseHandler(adapter, logger),
		cohorts:     cohorts,
	}
}

// List serves GET /api/customers[?cohort=YYYY-MM].
func (h *CustomerHandler) List(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if cohort := transport.QueryString(ctx, "cohort", ""); cohort != "" {
		insight, err := h.cohorts.GetCohort(reqCtx, cohort)
		if err != nil {
			h.respondError(ctx, err)
			return
		}
		h.respondSuccess(ctx, http.StatusOK, insight)
		return
	}

	insights, err := h.cohorts.ListCohorts(reqCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{"cohorts": insights})
}
