// Singleton so that it's easier to use in other packages
package prometheus

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/relistan/go-director"
	"github.com/sirupsen/logrus"
)

const (
	ChangestreamEvents         = "changestream_events_total"
	ChangestreamIngestErrors   = "changestream_ingest_errors"
	ChangestreamDroppedUpdates = "changestream_dropped_updates"
	ChangestreamSkippedFields  = "changestream_skipped_fields"
	ChangestreamPublished      = "changestream_published_total"
	ChangestreamPublishErrors  = "changestream_publish_errors"
	ChangestreamHealthProbes   = "changestream_health_probes"
	ChangestreamLookups        = "changestream_lookups_total"
	ChangestreamLookupErrors   = "changestream_lookup_errors"
	ChangestreamPublishRate    = "changestream_publish_rate"
)

var (
	mutex    = &sync.RWMutex{}
	counters = make(map[string]float64, 0)

	prometheusMutex    = &sync.RWMutex{}
	prometheusCounters = make(map[string]prometheus.Counter)
	prometheusGauges   = make(map[string]prometheus.Gauge)

	initOnce = &sync.Once{}
)

// Start periodically logs (and resets) the in-memory counters until ctx is
// cancelled
func Start(ctx context.Context, interval time.Duration) {
	looper := director.NewTimedLooper(director.FOREVER, interval, make(chan error, 1))

	logrus.Debugf("Launching stats reporter ('%s' interval)", interval)

	go func() {
		<-ctx.Done()
		looper.Quit()
	}()

	go looper.Loop(func() error {
		report(interval)
		return nil
	})
}

func report(interval time.Duration) {
	mutex.Lock()
	defer mutex.Unlock()

	for counterName, counterValue := range counters {
		perSecond := counterValue / interval.Seconds()

		logrus.Infof("STATS [%s]: %.2f / %s (%.2f/s)", counterName, counterValue,
			interval, perSecond)

		if counterName == ChangestreamPublished {
			SetPromGauge(ChangestreamPublishRate, perSecond)
		}

		// Reset it
		counters[counterName] = 0
	}
}

// InitPrometheusMetrics sets up prometheus counters/gauges. Safe to call more
// than once.
func InitPrometheusMetrics() {
	initOnce.Do(func() {
		prometheusMutex.Lock()
		defer prometheusMutex.Unlock()

		prometheusGauges[ChangestreamPublishRate] = promauto.NewGauge(prometheus.GaugeOpts{
			Name: ChangestreamPublishRate,
			Help: "Current rate of updates being published to the broker",
		})

		newCounter(ChangestreamEvents, "Total number of update events read from the change stream")
		newCounter(ChangestreamIngestErrors, "Number of fatal change stream errors")
		newCounter(ChangestreamDroppedUpdates, "Number of updates dropped because the publish queue was full")
		newCounter(ChangestreamSkippedFields, "Number of timestamp fields skipped because they were not datetimes")
		newCounter(ChangestreamPublished, "Total number of updates published to the broker")
		newCounter(ChangestreamPublishErrors, "Number of failed publish calls")
		newCounter(ChangestreamHealthProbes, "Number of broker health probes")
		newCounter(ChangestreamLookups, "Total number of document lookups")
		newCounter(ChangestreamLookupErrors, "Number of failed document lookups")
	})
}

// newCounter must be called with prometheusMutex held
func newCounter(name, help string) {
	prometheusCounters[name] = promauto.NewCounter(prometheus.CounterOpts{
		Name: name,
		Help: help,
	})
}

// IncrPromCounter increments a prometheus counter by the given amount. Unknown
// counters (or metrics that were never initialized) are ignored.
func IncrPromCounter(key string, amount float64) {
	key = strings.Replace(key, "-", "_", -1)

	prometheusMutex.RLock()
	defer prometheusMutex.RUnlock()

	if c, ok := prometheusCounters[key]; ok {
		c.Add(amount)
	}
}

// SetPromGauge sets a prometheus gauge value
func SetPromGauge(key string, amount float64) {
	prometheusMutex.RLock()
	defer prometheusMutex.RUnlock()

	c, ok := prometheusGauges[key]
	if ok {
		c.Set(amount)
	}
}

// Incr increments a counter by the given amount
func Incr(name string, value float64) {
	mutex.Lock()
	defer mutex.Unlock()

	if _, ok := counters[name]; !ok {
		counters[name] = 0
	}

	counters[name] += value
}

// Get returns the current value of an in-memory counter
func Get(name string) float64 {
	mutex.RLock()
	defer mutex.RUnlock()

	return counters[name]
}
