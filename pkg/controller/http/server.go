package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/webship/pkg/domain/interfaces"
)

const (
	// WebhookPath receives GitHub deliveries
	WebhookPath = "/hooks/github/app"
	// HealthPath reports liveness and the running version
	HealthPath = "/health"

	defaultAddr       = "localhost:8080"
	readHeaderTimeout = 15 * time.Second
	readTimeout       = 30 * time.Second
	idleTimeout       = 2 * time.Minute
)

type serverOptions struct {
	addr          string
	webhookSecret string
}

// Option configures NewServer
type Option func(*serverOptions)

// WithAddr sets the listen address
func WithAddr(addr string) Option {
	return func(o *serverOptions) {
		o.addr = addr
	}
}

// WithWebhookSecret sets the shared secret of the GitHub webhook. Without
// it the webhook route is not mounted at all.
func WithWebhookSecret(secret string) Option {
	return func(o *serverOptions) {
		o.webhookSecret = secret
	}
}

// Server is the HTTP front of the serve command
type Server struct {
	*http.Server
}

// NewServer builds the router and wraps it in an http.Server. ctx provides
// the base logger for request logs.
func NewServer(ctx context.Context, webhookUC interfaces.WebhookUseCase, opts ...Option) (*Server, error) {
	o := &serverOptions{addr: defaultAddr}
	for _, opt := range opts {
		opt(o)
	}
	if o.addr == "" {
		return nil, goerr.New("listen address must not be empty")
	}

	return &Server{
		Server: &http.Server{
			Addr:              o.addr,
			Handler:           newRouter(ctx, webhookUC, o),
			ReadHeaderTimeout: readHeaderTimeout,
			ReadTimeout:       readTimeout,
			IdleTimeout:       idleTimeout,
		},
	}, nil
}

func newRouter(ctx context.Context, webhookUC interfaces.WebhookUseCase, o *serverOptions) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		LoggingMiddleware(ctx),
		middleware.Recoverer,
	)

	r.Get(HealthPath, handleHealth)

	if o.webhookSecret == "" {
		ctxlog.From(ctx).Warn("No webhook secret configured, webhook endpoint disabled")
		return r
	}
	r.Post(WebhookPath, NewWebhookHandler(o.webhookSecret, webhookUC).Handle)
	return r
}
