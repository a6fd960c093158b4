package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aussiebroadwan/nominate/internal/nominate/blob"
	"github.com/aussiebroadwan/nominate/internal/nominate/service"
	"github.com/aussiebroadwan/nominate/internal/nominate/store"
	"github.com/aussiebroadwan/nominate/pkg/httpx"
	"github.com/aussiebroadwan/nominate/pkg/slogx"

	_ "github.com/aussiebroadwan/nominate/api/nominate" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// DefaultMaxUploadBytes caps a whole /submit request body.
const DefaultMaxUploadBytes = 25 << 20

// CookieConfig controls the admin session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	registry     *prometheus.Registry

	store store.Store
	blobs blob.Store

	SubmissionService *service.SubmissionService
	SessionService    *service.SessionService
	NominationService *service.NominationService

	Cookie         CookieConfig
	MaxUploadBytes int64
	PublicDir      string // serves form.html, admin.html and assets when set
}

func NewRouter(
	buildVersion string,
	st store.Store,
	blobs blob.Store,
	logger *slog.Logger,
	registry *prometheus.Registry,
) *Router {
	r := &Router{
		Mux:            http.NewServeMux(),
		buildVersion:   buildVersion,
		startTime:      time.Now(),
		logger:         logger,
		registry:       registry,
		store:          st,
		blobs:          blobs,
		Cookie:         CookieConfig{Name: "nominate_session"},
		MaxUploadBytes: DefaultMaxUploadBytes,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.NewHTTPMetrics(registry, "nominate").Middleware(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerSubmit()
	r.registerAdmin()
	r.registerSystem()
	r.registerStatic()

	r.Mux.Handle("GET /swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Nomination Service API
//	@version		0.1.0
//	@description	Accepts award nominations with an optional CV and lets administrators review them and generate the final nomination PDF.
//
//	@contact.name	AussieBroadWAN Team
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host			localhost:8080
//	@BasePath		/
//
//	@schemes		http https
//
//	@securityDefinitions.apikey	SessionCookie
//	@in							cookie
//	@name						nominate_session
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerSubmit() {
	h := &SubmitHandler{
		SubmissionService: r.SubmissionService,
		MaxUploadBytes:    r.MaxUploadBytes,
	}

	// POST /submit - public form, limited per IP
	r.Mux.Handle("POST /submit",
		httpx.Chain(h,
			httpx.RateLimitByIP(httpx.SubmitLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	sessions := &SessionHandler{SessionService: r.SessionService, Cookie: r.Cookie}

	// POST /admin/login - strict rate limit by IP (password guessing)
	r.Mux.Handle("POST /admin/login",
		httpx.Chain(http.HandlerFunc(sessions.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /admin/logout", http.HandlerFunc(sessions.HandleLogout))

	h := &NominationsHandler{NominationService: r.NominationService}
	secured := func(fn http.HandlerFunc) http.Handler {
		return httpx.Chain(fn,
			httpx.SessionMiddleware(r.SessionService.Authenticator(), r.Cookie.Name),
			httpx.RateLimitBySubject(httpx.AdminLimit),
		)
	}

	r.Mux.Handle("GET /admin/nominations", secured(h.HandleList))
	r.Mux.Handle("GET /admin/download/{id}", secured(h.HandleDownload))
	r.Mux.Handle("GET /admin/finalpdf/{id}", secured(h.HandleFinalPDF))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.blobs))
	r.Mux.Handle("GET /metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry}))
}

func (r *Router) registerStatic() {
	if r.PublicDir == "" {
		return
	}
	r.Mux.Handle("GET /{$}", PageHandler(r.PublicDir, "form.html"))
	r.Mux.Handle("GET /admin", PageHandler(r.PublicDir, "admin.html"))
	r.Mux.Handle("GET /", http.FileServer(http.Dir(r.PublicDir)))
}
