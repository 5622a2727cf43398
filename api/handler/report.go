package handler

import (
	"io"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/shoppulse/pipeline/api/transport"
	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/pkg/httpcontext"
	"github.com/shoppulse/pipeline/usecase/report"
)

type ReportHandler struct {
	baseHandler
	reports *report.Service
}

func NewReportHandler(reports *report.Service, adapter *httpcontext.Adapter, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		baseHandler: newBaseHandler(adapter, logger),
		reports:     reports,
	}
}

// Available serves GET /api/reports.
func (h *ReportHandler) Available(ctx *fasthttp.RequestCtx) {
	h.respondSuccess(ctx, http.StatusOK, h.reports.Available())
}

// Generate serves POST /api/reports.
func (h *ReportHandler) Generate(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	var req report.Request
	if err := transport.DecodeBody(ctx, &req); err != nil {
		h.respondError(ctx, domain.WrapError(domain.ErrCodeInvalid, "decode report request", err))
		return
	}

	result, err := h.reports.Generate(reqCtx, req)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, result)
}

// Download serves GET /reports/{name} with signature and expiry checks. The
// route uses a catch-all parameter because keys contain a format directory.
func (h *ReportHandler) Download(ctx *fasthttp.RequestCtx) {
	reqCtx, cancel := h.requestContext(ctx)
	defer cancel()

	key, _ := ctx.UserValue("name").(string)
	if len(key) > 0 && key[0] == '/' {
		key = key[1:]
	}

	body, info, err := h.reports.Open(reqCtx,
		key,
		transport.QueryString(ctx, "expires", ""),
		transport.QueryString(ctx, "signature", ""),
	)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.Response.Header.SetContentType(info.ContentType)
	ctx.SetStatusCode(http.StatusOK)
	ctx.SetBody(data)
}
