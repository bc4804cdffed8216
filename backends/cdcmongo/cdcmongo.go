package cdcmongo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/batchcorp/changestream/cdc"
	"github.com/batchcorp/changestream/util"
)

const BackendName = "cdc-mongo"

const (
	// ConnectionTimeout determines how long before a connection attempt to mongo is timed out
	ConnectionTimeout = time.Second * 10

	// ServerSelectionTimeout keeps lookups from hanging when mongo is unreachable
	ServerSelectionTimeout = time.Second * 2
)

var (
	ErrMissingURI        = errors.New("you must specify the --mongodb-uri flag")
	ErrMissingDatabase   = errors.New("you must specify the --mongodb-database flag")
	ErrMissingCollection = errors.New("you must specify the --mongodb-collection flag")
	ErrConnectionFailed  = errors.New("could not open mongo connection")
)

type Config struct {
	URI        string
	Database   string
	Collection string

	// AppName is reported to the server in the connection handshake
	AppName string
}

type Mongo struct {
	*Config

	client *mongo.Client
	log    *logrus.Entry
}

// ChangeStream adapts *mongo.ChangeStream to cdc.IChangeStream
type ChangeStream struct {
	cs *mongo.ChangeStream
}

var (
	_ cdc.IChangeStream = (*ChangeStream)(nil)
	_ cdc.IFinder       = (*Mongo)(nil)
)

func New(cfg *Config) (*Mongo, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "unable to validate config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(cfg.URI).
		SetServerSelectionTimeout(ServerSelectionTimeout)

	if cfg.AppName != "" {
		clientOpts.SetAppName(cfg.AppName)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, errors.Wrap(err, ErrConnectionFailed.Error())
	}

	return &Mongo{
		Config: cfg,
		client: client,
		log:    logrus.WithField("backend", BackendName),
	}, nil
}

func (m *Mongo) Name() string {
	return BackendName
}

// Namespace is the watched collection's namespace
func (m *Mongo) Namespace() cdc.Namespace {
	return cdc.Namespace{
		DB:   m.Database,
		Coll: m.Collection,
	}
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// collection returns a fresh handle; the watcher and the finder never share one
func (m *Mongo) collection() *mongo.Collection {
	return m.client.Database(m.Database).Collection(m.Collection)
}

// Watch opens a change stream on the collection, filtered to update operations
func (m *Mongo) Watch(ctx context.Context) (*ChangeStream, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.D{{Key: "operationType", Value: "update"}}}},
	}

	cs, err := m.collection().Watch(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "could not begin change stream")
	}

	m.log.Infof("watching updates on '%s'", m.Namespace())

	return &ChangeStream{cs: cs}, nil
}

// FindByID fetches the document with the given _id, without the _id itself.
// A missing document is (nil, nil).
func (m *Mongo) FindByID(ctx context.Context, id string) (cdc.Document, error) {
	findOpts := options.FindOne().SetProjection(bson.D{{Key: "_id", Value: 0}})

	raw, err := m.collection().FindOne(ctx, bson.D{{Key: "_id", Value: id}}, findOpts).DecodeBytes()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "unable to find document")
	}

	doc, err := util.PlainDocument(raw)
	if err != nil {
		return nil, errors.Wrap(err, "unable to convert document")
	}

	return doc, nil
}

func (c *ChangeStream) Next(ctx context.Context) bool {
	return c.cs.Next(ctx)
}

func (c *ChangeStream) Current() bson.Raw {
	return c.cs.Current
}

func (c *ChangeStream) Err() error {
	return c.cs.Err()
}

func (c *ChangeStream) Close(ctx context.Context) error {
	return c.cs.Close(ctx)
}

func validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}

	if cfg.URI == "" {
		return ErrMissingURI
	}

	if cfg.Database == "" {
		return ErrMissingDatabase
	}

	if cfg.Collection == "" {
		return ErrMissingCollection
	}

	return nil
}
