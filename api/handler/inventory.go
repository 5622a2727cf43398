package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/shoppulse/pipeline/api/transport"
	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/pkg/httpcontext"
	"github.com/shoppulse/pipeline/repository"
)

type InventoryHandler struct {
	baseHandler
	inventory repository.InventoryRepository
}

func NewInventoryHandler(inventory repository.InventoryRepository, adapter *httpcontext.Adapter, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		baseHandler: newBaseHandler(adapter, logger),
		inventory:   inventory,
	}
}

// List serves GET /api/inventory[?status=low|normal][&category=].
func (h *InventoryHandler) List(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	status := transport.QueryString(ctx, "status", "")
	switch status {
	case "", string(domain.StockLow), string(domain.StockNormal):
	default:
		h.respondError(ctx, domain.NewError(domain.ErrCodeInvalid, "status must be low or normal"))
		return
	}

	records, err := h.inventory.List(reqCtx, repository.InventoryFilter{
		Status:   domain.StockStatus(status),
		Category: transport.QueryString(ctx, "category", ""),
		Limit:    transport.QueryInt(ctx, "limit", 0),
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]interface{}{"products": records})
}
