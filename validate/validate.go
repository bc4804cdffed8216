// Package validate contains option validation functions
package validate

import (
	"net"

	"github.com/pkg/errors"

	"github.com/batchcorp/changestream/options"
)

const (
	BrokerCentrifugo  = "centrifugo"
	BrokerRedisPubSub = "redis-pubsub"
	BrokerNats        = "nats"
)

var (
	ErrMissingServeOptions       = errors.New("serve options cannot be nil")
	ErrMissingHealthcheckOptions = errors.New("healthcheck options cannot be nil")
	ErrInvalidListenAddress      = errors.New("--listen-address must be in host:port form")

	// MongoDB

	ErrMissingMongoURI        = errors.New("--mongodb-uri cannot be empty")
	ErrMissingMongoDatabase   = errors.New("--mongodb-database cannot be empty")
	ErrMissingMongoCollection = errors.New("--mongodb-collection cannot be empty")

	// Brokers

	ErrUnknownBroker           = errors.New("--broker must be one of: centrifugo, redis-pubsub, nats")
	ErrMissingCentrifugoAPIURL = errors.New("--centrifugo-api-url cannot be empty")
	ErrMissingCentrifugoAPIKey = errors.New("--centrifugo-api-key cannot be empty")
	ErrMissingRedisAddress     = errors.New("--redis-address cannot be empty")
	ErrMissingNatsURL          = errors.New("--nats-url cannot be empty")

	// Tuning

	ErrInvalidUpdateBufferSize    = errors.New("--update-buffer-size must be > 0")
	ErrInvalidPublishTimeout      = errors.New("--publish-timeout-seconds must be > 0")
	ErrInvalidShutdownTimeout     = errors.New("--shutdown-timeout-seconds must be > 0")
	ErrInvalidStatsReportInterval = errors.New("--stats-report-interval-seconds cannot be negative")
)

func ServeOptions(serveOpts *options.ServeOptions) error {
	if serveOpts == nil {
		return ErrMissingServeOptions
	}

	if err := listenAddress(serveOpts.ListenAddress); err != nil {
		return err
	}

	if err := mongoOptions(&serveOpts.MongoDB); err != nil {
		return err
	}

	if err := brokerOptions(serveOpts); err != nil {
		return err
	}

	if serveOpts.UpdateBufferSize <= 0 {
		return ErrInvalidUpdateBufferSize
	}

	if serveOpts.PublishTimeoutSeconds <= 0 {
		return ErrInvalidPublishTimeout
	}

	if serveOpts.ShutdownTimeoutSeconds <= 0 {
		return ErrInvalidShutdownTimeout
	}

	if serveOpts.StatsReportIntervalSeconds < 0 {
		return ErrInvalidStatsReportInterval
	}

	return nil
}

func HealthcheckOptions(healthOpts *options.HealthcheckOptions) error {
	if healthOpts == nil {
		return ErrMissingHealthcheckOptions
	}

	return listenAddress(healthOpts.ListenAddress)
}

func listenAddress(address string) error {
	if _, _, err := net.SplitHostPort(address); err != nil {
		return errors.Wrap(ErrInvalidListenAddress, err.Error())
	}

	return nil
}

func mongoOptions(mongoOpts *options.MongoDBOptions) error {
	if mongoOpts.URI == "" {
		return ErrMissingMongoURI
	}

	if mongoOpts.Database == "" {
		return ErrMissingMongoDatabase
	}

	if mongoOpts.Collection == "" {
		return ErrMissingMongoCollection
	}

	return nil
}

func brokerOptions(serveOpts *options.ServeOptions) error {
	switch serveOpts.Broker {
	case BrokerCentrifugo:
		if serveOpts.Centrifugo.APIURL == "" {
			return ErrMissingCentrifugoAPIURL
		}

		if serveOpts.Centrifugo.APIKey == "" {
			return ErrMissingCentrifugoAPIKey
		}
	case BrokerRedisPubSub:
		if serveOpts.RedisPubSub.Address == "" {
			return ErrMissingRedisAddress
		}
	case BrokerNats:
		if serveOpts.Nats.URL == "" {
			return ErrMissingNatsURL
		}
	default:
		return ErrUnknownBroker
	}

	return nil
}
