package cdc

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/batchcorp/changestream/prometheus"
	"github.com/batchcorp/changestream/roundtrip"
)

const (
	// DefaultLookupTimeout keeps a single lookup under the roundtrip reply timeout
	DefaultLookupTimeout = 400 * time.Millisecond
)

var (
	ErrMissingFinder   = errors.New("Finder cannot be nil")
	ErrMissingRequests = errors.New("Requests cannot be nil")
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 . IFinder
type IFinder interface {
	// FindByID returns (nil, nil) when no document has the given id
	FindByID(ctx context.Context, id string) (Document, error)
}

type LookupConfig struct {
	Finder   IFinder
	Requests *roundtrip.Receiver[string, *LookupResult]
	Timeout  time.Duration
}

// Lookup answers document id lookups sent over a roundtrip channel
type Lookup struct {
	*LookupConfig

	log *logrus.Entry
}

func NewLookup(cfg *LookupConfig) (*Lookup, error) {
	if err := validateLookupConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to validate lookup config")
	}

	return &Lookup{
		LookupConfig: cfg,
		log:          logrus.WithField("pkg", "cdc/lookup"),
	}, nil
}

func validateLookupConfig(cfg *LookupConfig) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}

	if cfg.Finder == nil {
		return ErrMissingFinder
	}

	if cfg.Requests == nil {
		return ErrMissingRequests
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultLookupTimeout
	}

	return nil
}

// Run serves lookups until the sending side of the channel is closed
func (l *Lookup) Run() {
	l.log.Debug("lookup started")

	for req := range l.Requests.Requests() {
		req.Reply(l.lookup(req.Payload))
	}

	l.log.Debug("lookup exiting")
}

func (l *Lookup) lookup(id string) *LookupResult {
	ctx, cancel := context.WithTimeout(context.Background(), l.Timeout)
	defer cancel()

	prometheus.IncrPromCounter(prometheus.ChangestreamLookups, 1)

	doc, err := l.Finder.FindByID(ctx, id)
	if err != nil {
		l.log.WithField("id", id).Errorf("unable to find document: %s", err)
		prometheus.IncrPromCounter(prometheus.ChangestreamLookupErrors, 1)

		return &LookupResult{Err: err}
	}

	return &LookupResult{Document: doc}
}
