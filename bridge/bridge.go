// Package bridge runs the change stream bridge: ingestion, lookups,
// publishing and the HTTP API, tied together by a single shutdown context.
package bridge

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/batchcorp/changestream/api"
	"github.com/batchcorp/changestream/backends"
	"github.com/batchcorp/changestream/cdc"
	"github.com/batchcorp/changestream/relay"
	"github.com/batchcorp/changestream/roundtrip"
)

const (
	DefaultUpdateBufferSize = 128
	DefaultShutdownTimeout  = 10 * time.Second

	// RoundtripQueueSize is the capacity of the health and lookup queues
	RoundtripQueueSize = 16
)

var (
	ErrMissingShutdownCtx      = errors.New("ServiceShutdownCtx cannot be nil")
	ErrMissingMainShutdownFunc = errors.New("MainShutdownFunc cannot be nil")
	ErrMissingStream           = errors.New("Stream cannot be nil")
	ErrMissingFinder           = errors.New("Finder cannot be nil")
	ErrMissingBroker           = errors.New("Broker cannot be nil")
	ErrMissingListenAddress    = errors.New("ListenAddress cannot be empty")
)

type Config struct {
	Stream    cdc.IChangeStream
	Finder    cdc.IFinder
	Broker    backends.IBroker
	Namespace cdc.Namespace

	ListenAddress string
	Version       string

	UpdateBufferSize int
	PublishTimeout   time.Duration
	ShutdownTimeout  time.Duration

	ServiceShutdownCtx context.Context
	MainShutdownFunc   context.CancelFunc
}

type Bridge struct {
	*Config

	log *logrus.Entry
}

func New(cfg *Config) (*Bridge, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to validate config")
	}

	return &Bridge{
		Config: cfg,
		log:    logrus.WithField("pkg", "bridge"),
	}, nil
}

func validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}

	if cfg.ServiceShutdownCtx == nil {
		return ErrMissingShutdownCtx
	}

	if cfg.MainShutdownFunc == nil {
		return ErrMissingMainShutdownFunc
	}

	if cfg.Stream == nil {
		return ErrMissingStream
	}

	if cfg.Finder == nil {
		return ErrMissingFinder
	}

	if cfg.Broker == nil {
		return ErrMissingBroker
	}

	if cfg.ListenAddress == "" {
		return ErrMissingListenAddress
	}

	if cfg.UpdateBufferSize <= 0 {
		cfg.UpdateBufferSize = DefaultUpdateBufferSize
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}

	return nil
}

// Run starts every task and blocks until all of them have exited. Shutdown
// begins when ServiceShutdownCtx is cancelled, either by the caller or by a
// fatal ingestion error, which Run then returns.
func (b *Bridge) Run() error {
	listener, err := net.Listen("tcp", b.ListenAddress)
	if err != nil {
		return errors.Wrapf(err, "unable to listen on '%s'", b.ListenAddress)
	}

	return b.serve(listener)
}

func (b *Bridge) serve(listener net.Listener) error {
	updateCh := make(chan *cdc.ChannelPayload, b.UpdateBufferSize)
	healthTx, healthRx := roundtrip.New[struct{}, bool](RoundtripQueueSize)
	lookupTx, lookupRx := roundtrip.New[string, *cdc.LookupResult](RoundtripQueueSize)

	ingester, err := cdc.NewIngester(&cdc.IngesterConfig{
		Stream:             b.Stream,
		UpdateCh:           updateCh,
		ServiceShutdownCtx: b.ServiceShutdownCtx,
		MainShutdownFunc:   b.MainShutdownFunc,
	})
	if err != nil {
		listener.Close()
		return errors.Wrap(err, "unable to create ingester")
	}

	lookup, err := cdc.NewLookup(&cdc.LookupConfig{
		Finder:   b.Finder,
		Requests: lookupRx,
	})
	if err != nil {
		listener.Close()
		return errors.Wrap(err, "unable to create lookup")
	}

	publisher, err := relay.New(&relay.Config{
		Broker:         b.Broker,
		UpdateCh:       updateCh,
		Health:         healthRx,
		PublishTimeout: b.PublishTimeout,
	})
	if err != nil {
		listener.Close()
		return errors.Wrap(err, "unable to create publisher")
	}

	a, err := api.New(&api.Config{
		ListenAddress: listener.Addr().String(),
		Version:       b.Version,
		Namespace:     b.Namespace,
		Health:        healthTx,
		Lookup:        lookupTx,
	})
	if err != nil {
		listener.Close()
		return errors.Wrap(err, "unable to create api")
	}

	srv := a.Server()

	g := &errgroup.Group{}

	g.Go(func() error {
		// Nothing else sends on updateCh
		defer close(updateCh)

		return ingester.Run()
	})

	g.Go(func() error {
		lookup.Run()
		return nil
	})

	g.Go(func() error {
		publisher.Run()
		return nil
	})

	g.Go(func() error {
		b.log.Infof("HTTP API listening on %s", listener.Addr())

		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			b.log.Errorf("HTTP server failed: %s", err)
			b.MainShutdownFunc()

			return errors.Wrap(err, "HTTP server failed")
		}

		return nil
	})

	g.Go(func() error {
		<-b.ServiceShutdownCtx.Done()

		b.log.Info("shutting down HTTP API")

		ctx, cancel := context.WithTimeout(context.Background(), b.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			b.log.Warningf("HTTP API did not shut down cleanly: %s", err)
			srv.Close()
		}

		healthTx.Close()
		lookupTx.Close()

		return nil
	})

	err = g.Wait()

	b.log.Debug("all tasks exited")

	return err
}
