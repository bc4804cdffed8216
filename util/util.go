package util

import (
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

func DurationSec(durationSec interface{}) time.Duration {
	if v, ok := durationSec.(int32); ok {
		return time.Duration(v) * time.Second
	}

	if v, ok := durationSec.(uint32); ok {
		return time.Duration(v) * time.Second
	}

	if v, ok := durationSec.(int64); ok {
		return time.Duration(v) * time.Second
	}

	if v, ok := durationSec.(int); ok {
		return time.Duration(v) * time.Second
	}

	return 0
}

// PlainValue converts a BSON value into a value encoding/json renders the way
// subscribers expect: numbers, strings, bools and null as-is, datetimes as
// UTC time.Time (RFC3339 in JSON), ObjectIDs and decimals as strings and
// embedded documents/arrays recursively.
func PlainValue(v bson.RawValue) interface{} {
	switch v.Type {
	case bsontype.Double:
		return v.Double()
	case bsontype.String:
		return v.StringValue()
	case bsontype.Int32:
		return v.Int32()
	case bsontype.Int64:
		return v.Int64()
	case bsontype.Boolean:
		return v.Boolean()
	case bsontype.Null, bsontype.Undefined:
		return nil
	case bsontype.DateTime:
		return time.UnixMilli(v.DateTime()).UTC()
	case bsontype.ObjectID:
		return v.ObjectID().Hex()
	case bsontype.Decimal128:
		return v.Decimal128().String()
	case bsontype.EmbeddedDocument:
		doc, err := PlainDocument(v.Document())
		if err != nil {
			return v.String()
		}

		return doc
	case bsontype.Array:
		values, err := v.Array().Values()
		if err != nil {
			return v.String()
		}

		out := make([]interface{}, 0, len(values))
		for _, elem := range values {
			out = append(out, PlainValue(elem))
		}

		return out
	default:
		// Extended JSON rendering for everything exotic (regex, binary, ...)
		return v.String()
	}
}

// PlainDocument converts every element of a BSON document with PlainValue
func PlainDocument(raw bson.Raw) (map[string]interface{}, error) {
	elems, err := raw.Elements()
	if err != nil {
		return nil, errors.Wrap(err, "unable to read document elements")
	}

	doc := make(map[string]interface{}, len(elems))

	for _, elem := range elems {
		doc[elem.Key()] = PlainValue(elem.Value())
	}

	return doc, nil
}
