package transport

import (
	"encoding/json"
	"strconv"

	"github.com/valyala/fasthttp"
)

// QueryString returns a query argument or the fallback when absent.
func QueryString(ctx *fasthttp.RequestCtx, name, fallback string) string {
	if v := string(ctx.QueryArgs().Peek(name)); v != "" {
		return v
	}
	return fallback
}

// QueryInt returns an integer query argument or the fallback when absent or
// malformed.
func QueryInt(ctx *fasthttp.RequestCtx, name string, fallback int) int {
	if v := string(ctx.QueryArgs().Peek(name)); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return fallback
}

// DecodeBody unmarshals the request body into out.
func DecodeBody(ctx *fasthttp.RequestCtx, out interface{}) error {
	return json.Unmarshal(ctx.PostBody(), out)
}
