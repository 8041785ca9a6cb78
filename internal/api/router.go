package api

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	apiContext "signalrelay/internal/api/context"
	"signalrelay/internal/api/handlers"
	"signalrelay/internal/api/middleware"
)

type Dependencies struct {
	SignalHandler  *handlers.SignalHandler
	LogsHandler    *handlers.LogsHandler
	TargetsHandler *handlers.TargetsHandler
	HealthHandler  *handlers.HealthHandler
	IndexHandler   *handlers.IndexHandler
	RateLimiter    *middleware.RateLimiter
}

func NewRouter(deps *Dependencies) *httprouter.Router {
	router := httprouter.New()

	rl := deps.RateLimiter.Handle

	// Ingress
	router.POST("/webhook", chain(deps.SignalHandler.Universal, middleware.RequestLog, rl))
	router.POST("/webhook/:symbol", chain(deps.SignalHandler.WithSymbol, middleware.RequestLog, rl))
	router.POST("/test-webhook/:symbol", chain(deps.TargetsHandler.TestWebhook, middleware.RequestLog, rl))

	// Query surface
	router.GET("/logs/:symbol", chain(deps.LogsHandler.List, middleware.RequestLog, rl))
	router.GET("/logs/:symbol/html", chain(deps.LogsHandler.HTML, middleware.RequestLog, rl))
	router.GET("/webhooks", chain(deps.TargetsHandler.ListWebhooks, middleware.RequestLog, rl))
	router.GET("/instruments", chain(deps.TargetsHandler.ListInstruments, middleware.RequestLog, rl))
	router.GET("/stats", chain(deps.LogsHandler.Stats, middleware.RequestLog, rl))
	router.GET("/health", chain(deps.HealthHandler.Check, middleware.RequestLog, rl))
	router.GET("/", chain(deps.IndexHandler.Info, middleware.RequestLog, rl))

	return router
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		// Inject params into context
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}
