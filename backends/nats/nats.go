// Package nats publishes channel payloads as NATS messages
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	BackendName = "nats"

	DefaultFlushTimeout = 5 * time.Second
)

var ErrMissingURL = errors.New("you must specify the --nats-url flag")

type Config struct {
	URL          string
	FlushTimeout time.Duration
}

// publisher is the subset of *nats.Conn used by Nats
type publisher interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
	Close()
}

type Nats struct {
	*Config

	client publisher
	log    *logrus.Entry
}

func New(cfg *Config) (*Nats, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to validate config")
	}

	c, err := nats.Connect(cfg.URL, nats.Name("changestream"))
	if err != nil {
		return nil, errors.Wrap(err, "unable to create new nats client")
	}

	return &Nats{
		Config: cfg,
		client: c,
		log:    logrus.WithField("backend", BackendName),
	}, nil
}

func (n *Nats) Name() string {
	return BackendName
}

func (n *Nats) Close() error {
	n.client.Close()
	return nil
}

// Publish JSON encodes data, publishes it on subject channel and waits for
// the server to acknowledge the flush.
func (n *Nats) Publish(ctx context.Context, channel string, data interface{}) error {
	b, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "unable to marshal data")
	}

	if err := n.client.Publish(channel, b); err != nil {
		return fmt.Errorf("unable to publish message to subject '%s': %s", channel, err)
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.FlushTimeout)
		defer cancel()
	}

	if err := n.client.FlushWithContext(ctx); err != nil {
		return errors.Wrap(err, "unable to flush message")
	}

	return nil
}

func validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}

	if cfg.URL == "" {
		return ErrMissingURL
	}

	if cfg.FlushTimeout <= 0 {
		cfg.FlushTimeout = DefaultFlushTimeout
	}

	return nil
}
