// Package options holds the command line and environment configuration
// surface. It performs "light" validation only; see the validate package.
package options

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"
)

var (
	VERSION = "UNSET"
)

const (
	ServeCommand       = "serve"
	HealthcheckCommand = "healthcheck"
)

type CLIOptions struct {
	Debug bool `help:"Enable debug output" env:"DEBUG"`
	Quiet bool `help:"Only output errors" env:"QUIET"`

	Serve       ServeOptions       `cmd:"" default:"withargs" help:"Bridge change stream updates to the broker (default)"`
	Healthcheck HealthcheckOptions `cmd:"" help:"Probe the health of a locally running bridge"`
}

type ServeOptions struct {
	ListenAddress string `help:"Address the HTTP API listens on" default:"0.0.0.0:8080" env:"LISTEN_ADDRESS"`

	MongoDB MongoDBOptions `embed:"" prefix:"mongodb-"`

	Broker      string             `help:"Broker to publish updates to" default:"centrifugo" enum:"centrifugo,redis-pubsub,nats" env:"BROKER"`
	Centrifugo  CentrifugoOptions  `embed:"" prefix:"centrifugo-"`
	RedisPubSub RedisPubSubOptions `embed:"" prefix:"redis-"`
	Nats        NatsOptions        `embed:"" prefix:"nats-"`

	UpdateBufferSize           int `help:"Number of updates buffered for the publisher" default:"128" env:"UPDATE_BUFFER_SIZE"`
	PublishTimeoutSeconds      int `help:"Timeout for a single publish call" default:"5" env:"PUBLISH_TIMEOUT_SECONDS"`
	ShutdownTimeoutSeconds     int `help:"Time allowed for in-flight HTTP requests on shutdown" default:"10" env:"SHUTDOWN_TIMEOUT_SECONDS"`
	StatsReportIntervalSeconds int `help:"Interval for logging stats; 0 disables" default:"0" env:"STATS_REPORT_INTERVAL_SECONDS"`
}

type MongoDBOptions struct {
	URI        string `help:"MongoDB connection string" default:"mongodb://mongo" env:"MONGODB_URI"`
	Database   string `help:"Database to watch" env:"MONGODB_DATABASE"`
	Collection string `help:"Collection to watch" env:"MONGODB_COLLECTION"`
}

type CentrifugoOptions struct {
	APIURL string `name:"api-url" help:"Centrifugo HTTP API endpoint" default:"http://centrifugo:8000/api" env:"CENTRIFUGO_API_URL"`
	APIKey string `name:"api-key" help:"Centrifugo API key" env:"CENTRIFUGO_API_KEY"`
}

type RedisPubSubOptions struct {
	Address  string `help:"Redis address" default:"localhost:6379" env:"REDIS_ADDRESS"`
	Username string `help:"Redis username (redis >= v6.0.0)" env:"REDIS_USERNAME"`
	Password string `help:"Redis password" env:"REDIS_PASSWORD"`
	Database int    `help:"Redis database" default:"0" env:"REDIS_DATABASE"`
}

type NatsOptions struct {
	URL string `help:"NATS server URL" default:"nats://localhost:4222" env:"NATS_URL"`
}

type HealthcheckOptions struct {
	ListenAddress string `help:"Address the bridge listens on" default:"0.0.0.0:8080" env:"LISTEN_ADDRESS"`
}

// New parses args (without the program name) and returns the selected
// command along with the populated options.
func New(args []string) (string, *CLIOptions, error) {
	cliOpts := &CLIOptions{}

	maybeDisplayVersion(args)

	k, err := kong.New(
		cliOpts,
		kong.Name("changestream"),
		kong.Description("Bridge MongoDB change stream updates to a pub/sub broker"),
		kong.ShortUsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
	)
	if err != nil {
		return "", nil, errors.Wrap(err, "unable to create new kong instance")
	}

	kongCtx, err := k.Parse(args)
	if err != nil {
		return "", nil, errors.Wrap(err, "unable to parse CLI options")
	}

	return kongCtx.Command(), cliOpts, nil
}

func maybeDisplayVersion(args []string) {
	for _, f := range args {
		if f == "--version" {
			fmt.Println(VERSION)
			os.Exit(0)
		}
	}
}
