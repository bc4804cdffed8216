package cdc_test

import (
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/batchcorp/changestream/cdc"
)

func rawValue(v interface{}) bson.RawValue {
	raw, err := bson.Marshal(bson.D{{Key: "v", Value: v}})
	Expect(err).ToNot(HaveOccurred())

	return bson.Raw(raw).Lookup("v")
}

func newEvent(fields bson.D) *cdc.ChangeEvent {
	event := &cdc.ChangeEvent{
		Namespace:  cdc.Namespace{DB: "db", Coll: "coll"},
		DocumentID: "doc1",
	}

	for _, f := range fields {
		event.ChangedFields = append(event.ChangedFields, cdc.Field{
			Path:  f.Key,
			Value: rawValue(f.Value),
		})
	}

	return event
}

func changeDocument(id interface{}, updated bson.D) bson.Raw {
	raw, err := bson.Marshal(bson.D{
		{Key: "_id", Value: bson.D{{Key: "_data", Value: "826400"}}},
		{Key: "operationType", Value: "update"},
		{Key: "ns", Value: bson.D{{Key: "db", Value: "db"}, {Key: "coll", Value: "coll"}}},
		{Key: "documentKey", Value: bson.D{{Key: "_id", Value: id}}},
		{Key: "updateDescription", Value: bson.D{
			{Key: "updatedFields", Value: updated},
			{Key: "removedFields", Value: bson.A{}},
		}},
	})
	Expect(err).ToNot(HaveOccurred())

	return raw
}
