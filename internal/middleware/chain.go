package middleware

import "net/http"

// Chain wraps h in the given middleware so they run in the order listed:
// the first argument sees the request first, h runs last.
//
//	handler := Chain(mux, RequestID, RequestLogging, CORS("*"))
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
