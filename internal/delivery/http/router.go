package http

import (
	"context"
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"nightout/internal/delivery/http/controllers"
	"nightout/internal/delivery/http/helpers"
	"nightout/internal/delivery/http/middleware"
	"nightout/internal/domain"
	"nightout/internal/metrics"
)

// Pinger reports whether a backing store is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps carries everything NewRouter wires together.
type RouterDeps struct {
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	TokenVerifier  domain.TokenVerifier
	InviteLimiter  *middleware.RateLimiter
	AllowedOrigins []string
	Health         Pinger

	Auth        *controllers.AuthController
	Users       *controllers.UserController
	Venues      *controllers.VenueController
	Plans       *controllers.PlanController
	Events      *controllers.EventController
	Invitations *controllers.InvitationController
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(d RouterDeps) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(d.TokenVerifier, d.Logger)
	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, middleware.Instrument(d.Metrics, pattern, h))
	}

	// Auth
	handle("POST /auth/signup", d.Auth.SignUp)
	handle("POST /auth/login", d.Auth.Login)

	// Users
	handle("GET /users/search", auth(d.Users.SearchUsers))
	handle("GET /me/preferences", auth(d.Users.GetPreferences))
	handle("PUT /me/preferences", auth(d.Users.UpdatePreferences))

	// Venues
	handle("GET /venues/search", auth(d.Venues.Search))

	// Plans
	handle("POST /plans", auth(d.Plans.CreatePlan))
	handle("GET /plans/{planID}", auth(d.Plans.GetPlan))
	handle("DELETE /plans/{planID}", auth(d.Plans.DeletePlan))
	handle("POST /plans/{planID}/venues", auth(d.Plans.AddVenue))
	handle("DELETE /plans/{planID}/venues", auth(d.Plans.ClearVenues))
	handle("DELETE /plans/{planID}/venues/{placeID}", auth(d.Plans.RemoveVenue))
	handle("POST /plans/{planID}/optimize", auth(d.Plans.Optimize))

	// Events
	handle("POST /events", auth(d.Events.CreateEvent))
	handle("GET /events/me", auth(d.Events.ListMyEvents))
	handle("GET /events/{eventID}", auth(d.Events.GetEvent))
	handle("POST /events/{eventID}/cancel", auth(d.Events.CancelEvent))
	handle("POST /invites/{inviteCode}/join", auth(d.Events.JoinEvent))

	// Invitations
	sendInvites := auth(d.Invitations.SendInvitations)
	if d.InviteLimiter != nil {
		sendInvites = d.InviteLimiter.Limit(sendInvites)
	}
	handle("POST /events/{eventID}/invitations", sendInvites)
	handle("GET /events/{eventID}/invitations", auth(d.Invitations.ListInvitations))

	// Ops
	mux.HandleFunc("GET /healthz", healthz(d.Health))
	mux.Handle("GET /metrics", d.Metrics.Handler())

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return middleware.LoggingMiddleware(d.Logger, middleware.CORS(d.AllowedOrigins, mux))
}

func healthz(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p != nil {
			if err := p.PingContext(r.Context()); err != nil {
				helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeInternalError, "database unreachable")
				return
			}
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
