package watcher

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	relaycli "github.com/SundaeSwap-finance/sundae-post-relay/relay-cli"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Handler drives a Runner, either on a fixed interval or once per lambda
// invocation.
type Handler struct {
	service  relaycli.Service
	logger   zerolog.Logger
	runner   *Runner
	metrics  relaycli.Metrics
	interval time.Duration
}

func NewHandler(service relaycli.Service, logger zerolog.Logger, runner *Runner, metrics relaycli.Metrics, interval time.Duration) *Handler {
	return &Handler{
		service:  service,
		logger:   logger,
		runner:   runner,
		metrics:  metrics,
		interval: interval,
	}
}

func (h *Handler) RunOnce(ctx context.Context, _ json.RawMessage) error {
	h.logger.Info().Msg("running scheduled poll")
	return h.runner.Poll(h.logger.WithContext(ctx))
}

func (h *Handler) Start() error {
	switch {
	case relaycli.CommonOpts.Console:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return h.Run(ctx)

	default:
		lambda.Start(h.RunOnce)
	}
	return nil
}

// Run polls immediately and then every interval until ctx is done. Poll
// failures are logged and never stop the loop.
func (h *Handler) Run(ctx context.Context) error {
	ctx = h.logger.WithContext(ctx)
	logger := cronLogger{logger: h.logger}
	scheduler := cron.New(
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	scheduler.Schedule(cron.Every(h.interval), cron.FuncJob(func() { h.poll(ctx) }))

	h.logger.Info().Dur("interval", h.interval).Msgf("starting %v", h.service.Name)
	h.poll(ctx)

	scheduler.Start()
	<-ctx.Done()
	<-scheduler.Stop().Done()

	h.logger.Info().Msg("stopping watcher")
	return nil
}

func (h *Handler) poll(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := h.runner.Poll(ctx); err != nil {
		h.metrics.Event(ctx, relaycli.FeedPollFailedMetric)
		h.logger.Error().Err(err).Msg("poll failed")
	}
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
