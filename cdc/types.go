// Package cdc turns MongoDB update events into channel payloads and serves
// point-in-time document lookups for would-be subscribers.
package cdc

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

const (
	ValuePrefix     = "val."
	TimestampPrefix = "ts."

	// ChannelSeparator joins the namespace and the document id in a channel name
	ChannelSeparator = ":"
)

var (
	ErrMissingUpdatedFields = errors.New("change event has no updateDescription.updatedFields")
	ErrBadDocumentKey       = errors.New("change event documentKey._id is not a string")
)

// Namespace identifies the watched collection. Its String() rendering is the
// channel prefix on both the publish and the subscribe path.
type Namespace struct {
	DB   string `bson:"db"`
	Coll string `bson:"coll"`
}

func (n Namespace) String() string {
	return n.DB + "." + n.Coll
}

// ChannelPrefix is the part of a channel name preceding the document id
func (n Namespace) ChannelPrefix() string {
	return n.String() + ChannelSeparator
}

// Channel returns the channel name for a document in this namespace
func (n Namespace) Channel(documentID string) string {
	return n.ChannelPrefix() + documentID
}

// Field is a single changed field of an update, in change stream order
type Field struct {
	Path  string
	Value bson.RawValue
}

// ChangeEvent is one update observed on the change stream
type ChangeEvent struct {
	Namespace     Namespace
	DocumentID    string
	ChangedFields []Field
}

// ChannelPayload is what gets published for a ChangeEvent
type ChannelPayload struct {
	Channel    string                 `json:"-"`
	Values     map[string]interface{} `json:"val"`
	Timestamps map[string]time.Time   `json:"ts"`
}

// Document is a stored document as returned to subscribers. A nil Document
// renders as an empty JSON object.
type Document map[string]interface{}

func (d Document) MarshalJSON() ([]byte, error) {
	if d == nil {
		return []byte("{}"), nil
	}

	return json.Marshal(map[string]interface{}(d))
}

// LookupResult is the reply to a lookup: a document, no document (nil
// Document and nil Err) or a failure.
type LookupResult struct {
	Document Document
	Err      error
}

// updateEvent is the subset of a change stream document we care about
type updateEvent struct {
	NS          Namespace `bson:"ns"`
	DocumentKey struct {
		ID bson.RawValue `bson:"_id"`
	} `bson:"documentKey"`
	UpdateDescription struct {
		UpdatedFields bson.Raw `bson:"updatedFields"`
	} `bson:"updateDescription"`
}

// DecodeChangeEvent decodes a raw change stream document of an update operation
func DecodeChangeEvent(raw bson.Raw) (*ChangeEvent, error) {
	ev := &updateEvent{}

	if err := bson.Unmarshal(raw, ev); err != nil {
		return nil, errors.Wrap(err, "unable to unmarshal change stream document")
	}

	if ev.DocumentKey.ID.Type != bsontype.String {
		return nil, ErrBadDocumentKey
	}

	if ev.UpdateDescription.UpdatedFields == nil {
		return nil, ErrMissingUpdatedFields
	}

	elems, err := ev.UpdateDescription.UpdatedFields.Elements()
	if err != nil {
		return nil, errors.Wrap(err, "unable to read updated fields")
	}

	fields := make([]Field, 0, len(elems))

	for _, elem := range elems {
		fields = append(fields, Field{
			Path:  elem.Key(),
			Value: elem.Value(),
		})
	}

	return &ChangeEvent{
		Namespace:     ev.NS,
		DocumentID:    ev.DocumentKey.ID.StringValue(),
		ChangedFields: fields,
	}, nil
}
