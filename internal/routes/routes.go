package routes

import (
	"net/http"

	"github.com/islandlabs/dreamtrack/internal/app"
	"github.com/islandlabs/dreamtrack/internal/handler"
	"github.com/islandlabs/dreamtrack/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler()
	auth := handler.NewAuthHandler(app.AuthService)
	user := handler.NewUserHandler(app.UserService)
	dream := handler.NewDreamHandler(app.DreamService)
	taxonomy := handler.NewTaxonomyHandler(app.TaxonomyService)
	stats := handler.NewStatsHandler(app.DreamService)

	mux := http.NewServeMux()

	// Health
	mux.HandleFunc("GET /healthz", health.Health)

	// Auth
	mux.HandleFunc("POST /register", auth.Register)
	mux.HandleFunc("POST /login", auth.Login)

	// Buddy sharing
	mux.HandleFunc("PUT /users/{id}/buddy", user.SetBuddy)
	mux.HandleFunc("DELETE /users/{id}/buddy", user.ClearBuddy)

	// Dreams and steps
	mux.HandleFunc("GET /dreams", dream.List)
	mux.HandleFunc("POST /dreams", dream.Create)
	mux.HandleFunc("PATCH /dreams/{id}", dream.Update)
	mux.HandleFunc("DELETE /dreams/{id}", dream.Delete)
	mux.HandleFunc("POST /dreams/{id}/steps", dream.CreateStep)
	mux.HandleFunc("GET /dreams/{id}/steps/{stepID}", dream.GetStep)
	mux.HandleFunc("PATCH /dreams/{id}/steps/{stepID}", dream.UpdateStep)

	// Taxonomy
	mux.HandleFunc("GET /statuses", taxonomy.Statuses)
	mux.HandleFunc("GET /categories", taxonomy.Categories)

	// Stats
	mux.HandleFunc("GET /stats", stats.Stats)

	// Global middleware - executed in order (top to bottom)
	h := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.RequestLogging,
		middleware.CORS(app.Cfg.CORSOrigin),
	)

	return h
}
