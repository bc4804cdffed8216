package backends

import (
	"context"
	"fmt"

	"github.com/batchcorp/changestream/backends/centrifugo"
	"github.com/batchcorp/changestream/backends/nats"
	"github.com/batchcorp/changestream/backends/rpubsub"
	"github.com/batchcorp/changestream/options"
	"github.com/batchcorp/changestream/util"
)

// IBroker is the interface that all pub/sub brokers implement. The publisher
// should utilize the broker via the interface.
//
//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 . IBroker
type IBroker interface {
	Name() string

	// Publish sends data (JSON encoded) to subscribers of channel. A nil
	// error means the broker acknowledged the publication.
	Publish(ctx context.Context, channel string, data interface{}) error

	// Close releases the connection to the broker
	Close() error
}

// New is a convenience function to instantiate the broker selected by --broker
func New(opts *options.ServeOptions) (IBroker, error) {
	var be IBroker
	var err error

	timeout := util.DurationSec(opts.PublishTimeoutSeconds)

	switch opts.Broker {
	case centrifugo.BackendName:
		be, err = centrifugo.New(&centrifugo.Config{
			APIURL:  opts.Centrifugo.APIURL,
			APIKey:  opts.Centrifugo.APIKey,
			Timeout: timeout,
		})
	case rpubsub.BackendName:
		be, err = rpubsub.New(&rpubsub.Config{
			Address:  opts.RedisPubSub.Address,
			Username: opts.RedisPubSub.Username,
			Password: opts.RedisPubSub.Password,
			Database: opts.RedisPubSub.Database,
		})
	case nats.BackendName:
		be, err = nats.New(&nats.Config{
			URL:          opts.Nats.URL,
			FlushTimeout: timeout,
		})
	default:
		return nil, fmt.Errorf("unknown broker '%s'", opts.Broker)
	}

	if err != nil {
		return nil, fmt.Errorf("unable to instantiate '%s' broker: %s", opts.Broker, err)
	}

	return be, nil
}
