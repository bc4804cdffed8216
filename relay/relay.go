// Package relay publishes channel payloads and health probes to the
// configured broker.
package relay

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/batchcorp/changestream/backends"
	"github.com/batchcorp/changestream/cdc"
	"github.com/batchcorp/changestream/prometheus"
	"github.com/batchcorp/changestream/roundtrip"
)

const (
	// HealthChannel receives the probe publications
	HealthChannel = "_"

	DefaultPublishTimeout = 5 * time.Second

	// DefaultHealthTimeout keeps a probe under the roundtrip reply timeout
	DefaultHealthTimeout = 400 * time.Millisecond
)

var (
	ErrMissingBroker   = errors.New("Broker cannot be nil")
	ErrMissingUpdateCh = errors.New("UpdateCh cannot be nil")
	ErrMissingHealth   = errors.New("Health cannot be nil")
)

type Config struct {
	Broker   backends.IBroker
	UpdateCh <-chan *cdc.ChannelPayload
	Health   *roundtrip.Receiver[struct{}, bool]

	PublishTimeout time.Duration
	HealthTimeout  time.Duration
}

type Relay struct {
	*Config

	log *logrus.Entry
}

func New(cfg *Config) (*Relay, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to complete relay config validation")
	}

	return &Relay{
		Config: cfg,
		log:    logrus.WithField("pkg", "relay"),
	}, nil
}

func validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("Relay config cannot be nil")
	}

	if cfg.Broker == nil {
		return ErrMissingBroker
	}

	if cfg.UpdateCh == nil {
		return ErrMissingUpdateCh
	}

	if cfg.Health == nil {
		return ErrMissingHealth
	}

	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = DefaultPublishTimeout
	}

	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = DefaultHealthTimeout
	}

	return nil
}

// Run serves both intakes until each of them has been closed. Publication
// failures are logged and the item is dropped.
func (r *Relay) Run() {
	r.log.WithField("broker", r.Broker.Name()).Debug("publisher started")

	updateCh := r.UpdateCh
	healthCh := r.Health.Requests()

	for updateCh != nil || healthCh != nil {
		select {
		case payload, ok := <-updateCh:
			if !ok {
				r.log.Debug("update queue closed")
				updateCh = nil
				continue
			}

			r.publish(payload)
		case req, ok := <-healthCh:
			if !ok {
				r.log.Debug("health queue closed")
				healthCh = nil
				continue
			}

			req.Reply(r.probe())
		}
	}

	r.log.Debug("publisher exiting")
}

func (r *Relay) publish(payload *cdc.ChannelPayload) {
	ctx, cancel := context.WithTimeout(context.Background(), r.PublishTimeout)
	defer cancel()

	if err := r.Broker.Publish(ctx, payload.Channel, payload); err != nil {
		r.log.WithField("channel", payload.Channel).Errorf("unable to publish update, dropping it: %s", err)
		prometheus.IncrPromCounter(prometheus.ChangestreamPublishErrors, 1)

		return
	}

	prometheus.Incr(prometheus.ChangestreamPublished, 1)
	prometheus.IncrPromCounter(prometheus.ChangestreamPublished, 1)
}

func (r *Relay) probe() bool {
	ctx, cancel := context.WithTimeout(context.Background(), r.HealthTimeout)
	defer cancel()

	prometheus.IncrPromCounter(prometheus.ChangestreamHealthProbes, 1)

	if err := r.Broker.Publish(ctx, HealthChannel, nil); err != nil {
		r.log.Errorf("health probe failed: %s", err)
		return false
	}

	return true
}
