// Package relayrest provides REST API utilities with CORS support, request
// logging and common middleware.
package relayrest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	relaycli "github.com/SundaeSwap-finance/sundae-post-relay/relay-cli"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/savaki/apigateway"
	"golang.org/x/sync/errgroup"
)

// MaxBodyBytes caps every inbound request body.
const MaxBodyBytes int64 = 1 << 20

const shutdownTimeout = 10 * time.Second

func Middlewares(logger zerolog.Logger, routes chi.Router) chi.Router {
	routes.Use(
		withEmbedPolicyHeaders,
		withCORS(),
		hlog.NewHandler(logger),
		hlog.RequestIDHandler("req_id", "X-Request-Id"),
		hlog.AccessHandler(accessLog),
		middleware.Recoverer,
		LimitBody(MaxBodyBytes),
	)
	return routes
}

// Webserver serves routes over http in console mode, or as an API Gateway
// lambda otherwise.
func Webserver(service relaycli.Service, logger zerolog.Logger, routes chi.Router) error {
	if relaycli.CommonOpts.Console {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info().Int("port", relaycli.CommonOpts.Port).Msgf("starting %v", service.Name)
		server := &http.Server{
			Addr:              fmt.Sprintf(":%v", relaycli.CommonOpts.Port),
			Handler:           routes,
			ReadHeaderTimeout: 10 * time.Second,
		}
		return Serve(ctx, server, logger)
	}

	lambda.Start(apigateway.Wrap(routes, relaycli.CommonOpts.Env))
	return nil
}

// Serve runs server until ctx is done, then shuts it down gracefully.
func Serve(ctx context.Context, server *http.Server, logger zerolog.Logger) error {
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		logger.Info().Msg("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return group.Wait()
}

// LimitBody rejects requests that declare a body larger than n and caps the
// rest with http.MaxBytesReader.
func LimitBody(n int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.ContentLength > n {
				WriteError(w, http.StatusRequestEntityTooLarge, ErrPayloadTooLarge)
				return
			}
			req.Body = http.MaxBytesReader(w, req.Body, n)
			next.ServeHTTP(w, req)
		})
	}
}

func accessLog(req *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(req).Info().
		Str("method", req.Method).
		Stringer("url", req.URL).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request")
}

func withEmbedPolicyHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		header := w.Header()
		header.Add("cross-origin-embedder-policy", "require-corp")
		header.Add("cross-origin-opener-policy", "same-origin")
		header.Add("cross-origin-resource-policy", "cross-origin")
		handler.ServeHTTP(w, req)
	})
}

func withCORS() func(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
	})
}
