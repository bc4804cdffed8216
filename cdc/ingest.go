package cdc

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/batchcorp/changestream/prometheus"
	"github.com/batchcorp/changestream/roundtrip"
)

const (
	// StreamCloseTimeout bounds closing the change stream cursor on exit
	StreamCloseTimeout = 5 * time.Second
)

var (
	ErrMissingStream           = errors.New("Stream cannot be nil")
	ErrMissingUpdateCh         = errors.New("UpdateCh cannot be nil")
	ErrMissingShutdownCtx      = errors.New("ServiceShutdownCtx cannot be nil")
	ErrMissingMainShutdownFunc = errors.New("MainShutdownFunc cannot be nil")
	ErrStreamExhausted         = errors.New("change stream ended unexpectedly")
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 . IChangeStream
type IChangeStream interface {
	// Next blocks until the next event is available; false means the stream
	// is done (see Err) or ctx was cancelled
	Next(ctx context.Context) bool

	// Current is the raw change stream document of the last Next() call
	Current() bson.Raw

	Err() error
	Close(ctx context.Context) error
}

type IngesterConfig struct {
	Stream   IChangeStream
	UpdateCh chan<- *ChannelPayload

	// SendTimeout bounds the wait for room in UpdateCh; defaults to roundtrip.SendTimeout
	SendTimeout time.Duration

	ServiceShutdownCtx context.Context
	MainShutdownFunc   context.CancelFunc
}

// Ingester reads update events off the change stream and hands their
// payloads to the publisher
type Ingester struct {
	*IngesterConfig

	log *logrus.Entry
}

func NewIngester(cfg *IngesterConfig) (*Ingester, error) {
	if err := validateIngesterConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to validate ingester config")
	}

	return &Ingester{
		IngesterConfig: cfg,
		log:            logrus.WithField("pkg", "cdc/ingest"),
	}, nil
}

func validateIngesterConfig(cfg *IngesterConfig) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}

	if cfg.Stream == nil {
		return ErrMissingStream
	}

	if cfg.UpdateCh == nil {
		return ErrMissingUpdateCh
	}

	if cfg.ServiceShutdownCtx == nil {
		return ErrMissingShutdownCtx
	}

	if cfg.MainShutdownFunc == nil {
		return ErrMissingMainShutdownFunc
	}

	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = roundtrip.SendTimeout
	}

	return nil
}

// Run blocks until ServiceShutdownCtx is cancelled (returns nil) or the
// change stream fails. A broken stream is a whole-process fault: Run calls
// MainShutdownFunc and returns the error.
func (i *Ingester) Run() error {
	ctx := i.ServiceShutdownCtx

	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), StreamCloseTimeout)
		defer cancel()

		if err := i.Stream.Close(closeCtx); err != nil {
			i.log.Warningf("unable to close change stream: %s", err)
		}
	}()

	i.log.Info("waiting for change stream events...")

	for {
		if !i.Stream.Next(ctx) {
			if ctx.Err() != nil {
				i.log.Info("received shutdown signal, exiting ingester")
				return nil
			}

			err := i.Stream.Err()
			if err == nil {
				err = ErrStreamExhausted
			}

			return i.fatal(errors.Wrap(err, "unable to read from change stream"))
		}

		event, err := DecodeChangeEvent(i.Stream.Current())
		if err != nil {
			return i.fatal(errors.Wrap(err, "unable to decode change event"))
		}

		prometheus.Incr(prometheus.ChangestreamEvents, 1)
		prometheus.IncrPromCounter(prometheus.ChangestreamEvents, 1)

		payload := Transform(event)

		i.log.WithField("channel", payload.Channel).Debug("forwarding update")

		if err := roundtrip.Offer(ctx, i.UpdateCh, payload, i.SendTimeout); err != nil {
			if ctx.Err() != nil {
				i.log.Info("received shutdown signal, exiting ingester")
				return nil
			}

			i.log.WithField("channel", payload.Channel).Errorf("unable to enqueue update, dropping it: %s", err)
			prometheus.IncrPromCounter(prometheus.ChangestreamDroppedUpdates, 1)
		}
	}
}

func (i *Ingester) fatal(err error) error {
	i.log.Error(err)
	prometheus.IncrPromCounter(prometheus.ChangestreamIngestErrors, 1)

	i.MainShutdownFunc()

	return err
}
