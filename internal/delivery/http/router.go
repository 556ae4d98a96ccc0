package http

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"conferencecentral/internal/delivery/http/controllers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"
)

// RouterDeps bundles what NewRouter needs to mount every route.
type RouterDeps struct {
	Logger         *slog.Logger
	Verifier       domain.TokenVerifier
	Conferences    *controllers.ConferenceController
	Sessions       *controllers.SessionController
	Profiles       *controllers.ProfileController
	Crons          *controllers.CronController
	Gatherer       prometheus.Gatherer
	HTTPMetrics    *middleware.HTTPMetrics
	AllowedOrigins []string
}

// NewRouter initializes the HTTP router with all application routes and wraps it
// with metrics, request logging and CORS.
func NewRouter(d RouterDeps) http.Handler {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(d.Verifier, d.Logger)

	// Conferences
	mux.HandleFunc("POST /conference", auth(d.Conferences.CreateConference))
	mux.HandleFunc("GET /conference/{websafeConferenceKey}", d.Conferences.GetConference)
	mux.HandleFunc("PUT /conference/{websafeConferenceKey}", auth(d.Conferences.UpdateConference))
	mux.HandleFunc("POST /conference/{websafeConferenceKey}", auth(d.Conferences.RegisterForConference))
	mux.HandleFunc("DELETE /conference/{websafeConferenceKey}", auth(d.Conferences.UnregisterFromConference))
	mux.HandleFunc("GET /conference/{websafeConferenceKey}/featured", d.Conferences.GetFeaturedSpeaker)
	mux.HandleFunc("POST /queryConferences", d.Conferences.QueryConferences)
	mux.HandleFunc("GET /conferences/created", auth(d.Conferences.ListCreated))
	mux.HandleFunc("GET /conferences/attending", auth(d.Conferences.ListAttending))
	mux.HandleFunc("GET /conferences/minAttendees", d.Conferences.ListMinAttendees)
	mux.HandleFunc("GET /conferences/maxAttendees", d.Conferences.ListMaxAttendees)
	mux.HandleFunc("GET /announcement", d.Conferences.GetAnnouncement)

	// Sessions
	mux.HandleFunc("POST /conference/{websafeConferenceKey}/sessions", auth(d.Sessions.CreateSession))
	mux.HandleFunc("GET /conference/{websafeConferenceKey}/sessions", d.Sessions.ListByConference)
	mux.HandleFunc("GET /conference/{websafeConferenceKey}/sessions/byType", d.Sessions.ListByType)
	mux.HandleFunc("GET /sessions/bySpeaker", d.Sessions.ListBySpeaker)

	// Profile and wishlist
	mux.HandleFunc("GET /profile", auth(d.Profiles.GetProfile))
	mux.HandleFunc("POST /profile", auth(d.Profiles.SaveProfile))
	mux.HandleFunc("GET /wishlist", auth(d.Profiles.ListWishlist))
	mux.HandleFunc("POST /wishlist", auth(d.Profiles.AddToWishlist))

	// Cron
	mux.HandleFunc("GET /crons/set_announcement", d.Crons.SetAnnouncement)

	// Ops
	mux.Handle("GET /metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	var handler http.Handler = mux
	if d.HTTPMetrics != nil {
		handler = d.HTTPMetrics.Instrument(handler)
	}
	handler = middleware.LoggingMiddleware(d.Logger, handler)
	return middleware.CORS(d.AllowedOrigins, handler)
}
