package cdc

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/bsontype"

	"github.com/batchcorp/changestream/prometheus"
	"github.com/batchcorp/changestream/util"
)

// Transform reshapes a change event into the payload published on the
// document's channel. "val." fields become values, "ts." fields holding a
// BSON datetime become timestamps; everything else is left out. A "ts." field
// of any other type is logged and skipped on its own.
func Transform(event *ChangeEvent) *ChannelPayload {
	payload := &ChannelPayload{
		Channel:    event.Namespace.Channel(event.DocumentID),
		Values:     make(map[string]interface{}, len(event.ChangedFields)),
		Timestamps: make(map[string]time.Time),
	}

	for _, field := range event.ChangedFields {
		if tag := strings.TrimPrefix(field.Path, ValuePrefix); tag != field.Path {
			payload.Values[tag] = util.PlainValue(field.Value)
			continue
		}

		if tag := strings.TrimPrefix(field.Path, TimestampPrefix); tag != field.Path {
			if field.Value.Type != bsontype.DateTime {
				logrus.WithFields(logrus.Fields{
					"pkg":     "cdc",
					"channel": payload.Channel,
					"field":   field.Path,
					"type":    field.Value.Type.String(),
				}).Error("timestamp field is not a BSON datetime - skipping")

				prometheus.IncrPromCounter(prometheus.ChangestreamSkippedFields, 1)
				continue
			}

			payload.Timestamps[tag] = time.UnixMilli(field.Value.DateTime()).UTC()
		}
	}

	return payload
}
