package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/ssh/terminal"

	"github.com/batchcorp/changestream/api"
	"github.com/batchcorp/changestream/backends"
	"github.com/batchcorp/changestream/backends/cdcmongo"
	"github.com/batchcorp/changestream/bridge"
	"github.com/batchcorp/changestream/options"
	"github.com/batchcorp/changestream/prometheus"
	"github.com/batchcorp/changestream/util"
	"github.com/batchcorp/changestream/validate"
)

const (
	HealthcheckTimeout = 5 * time.Second
	CloseTimeout       = 5 * time.Second
)

func main() {
	cmd, opts, err := options.New(os.Args[1:])
	if err != nil {
		logrus.Fatalf("Unable to handle CLI input: %s", err)
	}

	setupLogging(opts)

	switch cmd {
	case options.ServeCommand:
		err = serve(&opts.Serve)
	case options.HealthcheckCommand:
		err = healthcheck(&opts.Healthcheck)
	default:
		logrus.Fatalf("Unrecognized command: %s", cmd)
	}

	if err != nil {
		logrus.Fatalf("Unable to complete command: %s", err)
	}
}

func setupLogging(opts *options.CLIOptions) {
	if opts.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if opts.Quiet {
		logrus.SetLevel(logrus.ErrorLevel)
	}

	// JSON formatter for log output if not running in a TTY
	if !terminal.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
}

func healthcheck(healthOpts *options.HealthcheckOptions) error {
	if err := validate.HealthcheckOptions(healthOpts); err != nil {
		return errors.Wrap(err, "unable to validate healthcheck options")
	}

	ctx, cancel := context.WithTimeout(context.Background(), HealthcheckTimeout)
	defer cancel()

	return api.Probe(ctx, healthOpts.ListenAddress)
}

func serve(serveOpts *options.ServeOptions) error {
	if err := validate.ServeOptions(serveOpts); err != nil {
		return errors.Wrap(err, "unable to validate serve options")
	}

	signalCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serviceCtx, serviceShutdownFunc := context.WithCancel(signalCtx)
	defer serviceShutdownFunc()

	prometheus.InitPrometheusMetrics()

	if serveOpts.StatsReportIntervalSeconds > 0 {
		prometheus.Start(serviceCtx, util.DurationSec(serveOpts.StatsReportIntervalSeconds))
	}

	mongo, err := cdcmongo.New(&cdcmongo.Config{
		URI:        serveOpts.MongoDB.URI,
		Database:   serveOpts.MongoDB.Database,
		Collection: serveOpts.MongoDB.Collection,
		AppName:    "changestream",
	})
	if err != nil {
		return errors.Wrap(err, "unable to connect to mongodb")
	}

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), CloseTimeout)
		defer cancel()

		if err := mongo.Close(ctx); err != nil {
			logrus.Warningf("unable to close mongodb client: %s", err)
		}
	}()

	stream, err := mongo.Watch(serviceCtx)
	if err != nil {
		return errors.Wrap(err, "unable to open change stream")
	}

	broker, err := backends.New(serveOpts)
	if err != nil {
		return errors.Wrap(err, "unable to create broker")
	}

	defer func() {
		if err := broker.Close(); err != nil {
			logrus.Warningf("unable to close broker: %s", err)
		}
	}()

	b, err := bridge.New(&bridge.Config{
		Stream:             stream,
		Finder:             mongo,
		Broker:             broker,
		Namespace:          mongo.Namespace(),
		ListenAddress:      serveOpts.ListenAddress,
		Version:            options.VERSION,
		UpdateBufferSize:   serveOpts.UpdateBufferSize,
		PublishTimeout:     util.DurationSec(serveOpts.PublishTimeoutSeconds),
		ShutdownTimeout:    util.DurationSec(serveOpts.ShutdownTimeoutSeconds),
		ServiceShutdownCtx: serviceCtx,
		MainShutdownFunc:   serviceShutdownFunc,
	})
	if err != nil {
		return errors.Wrap(err, "unable to create bridge")
	}

	logrus.Infof("bridging updates of '%s' to %s", mongo.Namespace(), broker.Name())

	return b.Run()
}
