package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/danielgtaylor/huma/v2"

	"github.com/oaiiae/huma-contacts-ui/contactsapi"
	"github.com/oaiiae/huma-contacts-ui/handlers"
	"github.com/oaiiae/huma-contacts-ui/notify"
	"github.com/oaiiae/huma-contacts-ui/pages"
	"github.com/oaiiae/huma-contacts-ui/querycache"
	"github.com/oaiiae/huma-contacts-ui/router"
	"github.com/oaiiae/huma-contacts-ui/views"
)

type ServerOptions struct {
	Host              string        `short:"H" doc:"host to listen on"                    default:""`
	Port              string        `short:"p" doc:"port to listen on"                    default:"8888"`
	ReadHeaderTimeout time.Duration `          doc:"time allowed to read request headers" default:"15s"`
}

func NewServer(options *ServerOptions, handler http.Handler, logger *slog.Logger) *http.Server {
	return &http.Server{
		Addr:              options.Host + ":" + options.Port,
		ReadHeaderTimeout: options.ReadHeaderTimeout,
		Handler:           handler,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

type RouterOptions struct {
	EndpointsPrefix string `doc:"mount endpoints at a prefix" default:"/api"`
}

type CacheOptions struct {
	CacheStaleTime time.Duration `doc:"reuse the fetched contact list for this long, 0 to fetch on every read" default:"0s"`
}

// App holds the state shared by the pages, the endpoints and the commands.
type App struct {
	Views    *views.Env
	Sessions *notify.Sessions
	Metrics  *metrics.Set
}

// NewApp connects the views to the backend.
// The notifier defaults to the inbox of the anonymous session; pages and endpoints
// report to the inbox of their request's session.
func NewApp(
	backend *contactsapi.Options,
	cache *CacheOptions,
	notifications *notify.Options,
	notifier notify.Notifier,
	logger *slog.Logger,
) *App {
	set := metrics.NewSet()
	sessions := notify.NewSessions(notifications)
	if notifier == nil {
		notifier = sessions.Inbox("")
	}
	return &App{
		Views: &views.Env{
			API:      contactsapi.NewClient(backend, nil, set),
			Cache:    querycache.New(querycache.Options{StaleTime: cache.CacheStaleTime}),
			Notifier: notifier,
			Logger:   logger,
		},
		Sessions: sessions,
		Metrics:  set,
	}
}

func NewRouter(
	options *RouterOptions,
	title string,
	version string,
	revision string,
	created string,
	logger *slog.Logger,
	app *App,
) http.Handler {
	buildinfoMetric := joinQuote("build_info{goversion=", runtime.Version(),
		",title=", title,
		",version=", version,
		",revision=", revision,
		",created=", created,
		"} 1\n")
	metriks := metrics.NewSet()
	return router.New(title, version,
		func(w http.ResponseWriter, r *http.Request) {
			if _, err := app.Views.API.List(r.Context()); err != nil {
				logger.LogAttrs(r.Context(), slog.LevelWarn, "backend not ready", slog.Any("err", err))
				w.WriteHeader(http.StatusServiceUnavailable)
			}
		},
		func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, buildinfoMetric)
			metriks.WritePrometheus(w)
			app.Metrics.WritePrometheus(w)
			metrics.WriteProcessMetrics(w)
		},
		(&pages.Pages{
			Views:      app.Views,
			Sessions:   app.Sessions,
			Logger:     logger,
			Middleware: ctxlog{}.pageMiddleware(logger, metriks),
		}).Register,
		router.OptUseMiddleware(
			ctxlog{}.loggerMiddleware(logger),
			meterRequests(metriks),
			ctxlog{}.recoverMiddleware(logger),
		),
		router.OptGroup(options.EndpointsPrefix,
			router.OptGroup("/contacts", router.OptAutoRegister(&handlers.Contacts{
				Views:        app.Views,
				Sessions:     app.Sessions,
				ErrorHandler: ctxlog{}.errorHandler(logger),
			})),
			router.OptGroup("/notifications", router.OptAutoRegister(&handlers.Notifications{
				Sessions: app.Sessions,
			})),
		),
	)
}

// ctxlog is a [context.Context] key and acts as a virtual package for operations related to it.
type ctxlog struct{}

// loggerMiddleware returns a middleware that sets a [slog.Logger] in
// the [context.Context] and logs the request after it has terminated.
func (key ctxlog) loggerMiddleware(parent *slog.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		logger := parent.With("x-request-id", ctx.Header("X-Request-Id"))

		start := time.Now()
		next(huma.WithValue(ctx, key, logger.WithGroup("op").With("id", ctx.Operation().OperationID)))

		logger.LogAttrs(context.Background(), slog.LevelInfo,
			joinSpace(ctx.Operation().Method, ctx.Operation().Path, ctx.Version().Proto),
			slog.String("from", ctx.RemoteAddr()),
			slog.String("ref", ctx.Header("Referer")),
			slog.String("ua", ctx.Header("User-Agent")),
			slog.Int("status", ctx.Status()),
			slog.Duration("dur", time.Since(start)),
		)
	}
}

// recoverMiddleware returns a middleware that recovers and logs the value from panic.
// Also sets status response to [http.StatusInternalServerError].
func (key ctxlog) recoverMiddleware(fallback *slog.Logger) func(huma.Context, func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		defer func() {
			v := recover()
			if v != nil {
				logger, ok := ctx.Context().Value(key).(*slog.Logger)
				if !ok {
					logger = fallback
				}
				logger.LogAttrs(context.Background(), slog.LevelError, "panic occurred", slog.Any("recovered", v))
				ctx.SetStatus(http.StatusInternalServerError)
			}
		}()
		next(ctx)
	}
}

// pageMiddleware returns the [net/http] counterpart of the API middlewares, wrapping the
// handler of a page registered with pattern: it sets the logger in the [context.Context],
// recovers from panic, logs the request and meters it.
func (key ctxlog) pageMiddleware(parent *slog.Logger, set *metrics.Set) func(string, http.Handler) http.Handler {
	buckets := metrics.ExponentialBuckets(1e-3, 5, 6) //nolint: mnd // arbitrary

	return func(pattern string, next http.Handler) http.Handler {
		method, path, ok := strings.Cut(pattern, " ")
		if !ok {
			method, path = "", pattern
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := parent.With("x-request-id", r.Header.Get("X-Request-Id"))
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			start := time.Now()
			func() {
				defer func() {
					v := recover()
					if v != nil {
						logger.LogAttrs(context.Background(), slog.LevelError, "panic occurred", slog.Any("recovered", v))
						if !rec.wrote {
							http.Error(rec, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
						}
					}
				}()
				next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), key, logger)))
			}()

			logger.LogAttrs(context.Background(), slog.LevelInfo,
				joinSpace(r.Method, path, r.Proto),
				slog.String("from", r.RemoteAddr),
				slog.String("ref", r.Header.Get("Referer")),
				slog.String("ua", r.Header.Get("User-Agent")),
				slog.Int("status", rec.status),
				slog.Duration("dur", time.Since(start)),
			)

			if method == "" {
				method = r.Method
			}
			labels := joinQuote("{method=", method, ",path=", path, ",status=", strconv.Itoa(rec.status), "}")
			set.GetOrCreateCounter("http_requests_total" + labels).Inc()
			set.GetOrCreatePrometheusHistogramExt("http_request_duration_seconds"+labels, buckets).UpdateDuration(start)
		})
	}
}

// statusRecorder remembers the status written to the response.
type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (s *statusRecorder) WriteHeader(status int) {
	if !s.wrote {
		s.status, s.wrote = status, true
	}
	s.ResponseWriter.WriteHeader(status)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wrote = true
	return s.ResponseWriter.Write(b)
}

// errorHandler returns a function that gets the [slog.Logger] from [context.Context] and logs the error.
func (key ctxlog) errorHandler(fallback *slog.Logger) func(context.Context, error) {
	return func(ctx context.Context, err error) {
		level := slog.LevelError
		attrs := []slog.Attr{slog.Any("err", err)}

		var statusErr huma.StatusError
		if errors.As(err, &statusErr) {
			switch statusErr.GetStatus() / 100 {
			case 5: //nolint: mnd // 5XX HTTP Status Codes
				level = slog.LevelError
			case 4: //nolint: mnd // 4XX HTTP Status Codes
				level = slog.LevelWarn
			case 3: //nolint: mnd // 3XX HTTP Status Codes
				level = slog.LevelInfo
			}
			attrs = append(attrs, slog.Int("status", statusErr.GetStatus()))
		}

		var createErr *contactsapi.CreateError
		if errors.As(err, &createErr) {
			attrs = append(attrs, slog.String("failed", createErr.Step.String()))
		}
		var backendErr *contactsapi.StatusError
		if errors.As(err, &backendErr) {
			attrs = append(attrs, slog.Int("backend_status", backendErr.StatusCode))
		}

		logger, ok := ctx.Value(key).(*slog.Logger)
		if !ok {
			logger = fallback
		}
		logger.LogAttrs(context.Background(), level, "error occurred", attrs...)
	}
}

func meterRequests(set *metrics.Set) func(huma.Context, func(huma.Context)) {
	type ref struct {
		*metrics.Counter
		*metrics.PrometheusHistogram
	}

	refs := sync.Map{}
	refsMu := sync.Mutex{}
	buckets := metrics.ExponentialBuckets(1e-3, 5, 6) //nolint: mnd // arbitrary

	return func(ctx huma.Context, next func(huma.Context)) {
		op, start := ctx.Operation(), time.Now()
		next(ctx)

		uid := op.OperationID + http.StatusText(ctx.Status())
		val, ok := refs.Load(uid)
		if !ok {
			refsMu.Lock()
			val, ok = refs.Load(uid)
			if !ok {
				labels := joinQuote("{method=", op.Method, ",path=", op.Path, ",status=", strconv.Itoa(ctx.Status()), "}") //nolint: golines
				val = ref{
					set.NewCounter("http_requests_total" + labels),
					set.NewPrometheusHistogramExt("http_request_duration_seconds"+labels, buckets),
				}
				refs.Store(uid, val)
			}
			refsMu.Unlock()
		}
		valref := val.(ref) //nolint: errcheck // always true
		valref.Counter.Inc()
		valref.PrometheusHistogram.UpdateDuration(start)
	}
}

// joinQuote is [strings.Join] with " as separator.
func joinQuote(elems ...string) string { return strings.Join(elems, `"`) }

// joinSpace is [strings.Join] with space as separator.
func joinSpace(elems ...string) string { return strings.Join(elems, ` `) }
