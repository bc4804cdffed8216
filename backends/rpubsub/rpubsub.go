// Package rpubsub publishes channel payloads with Redis PUBLISH
package rpubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const BackendName = "redis-pubsub"

var ErrMissingAddress = errors.New("you must specify the --redis-address flag")

type Config struct {
	Address  string
	Username string
	Password string
	Database int
}

// publisher is the subset of *redis.Client used by RedisPubSub
type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Close() error
}

type RedisPubSub struct {
	*Config

	client publisher
	log    *logrus.Entry
}

func New(cfg *Config) (*RedisPubSub, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to validate config")
	}

	return &RedisPubSub{
		Config: cfg,
		client: NewClient(cfg),
		log:    logrus.WithField("backend", BackendName),
	}, nil
}

func NewClient(cfg *Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.Database,
	})
}

func (r *RedisPubSub) Name() string {
	return BackendName
}

func (r *RedisPubSub) Close() error {
	return r.client.Close()
}

// Publish JSON encodes data and publishes it to the redis channel of the
// same name. Zero receivers is not an error.
func (r *RedisPubSub) Publish(ctx context.Context, channel string, data interface{}) error {
	b, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "unable to marshal data")
	}

	receivers, err := r.client.Publish(ctx, channel, b).Result()
	if err != nil {
		return fmt.Errorf("unable to publish message to channel '%s': %s", channel, err)
	}

	r.log.Debugf("published to '%s' (%d receivers)", channel, receivers)

	return nil
}

func validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}

	if cfg.Address == "" {
		return ErrMissingAddress
	}

	return nil
}
