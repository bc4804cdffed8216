package cdc_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/batchcorp/changestream/cdc"
)

var _ = Describe("Types", func() {
	Context("Namespace", func() {
		It("renders db.coll", func() {
			ns := cdc.Namespace{DB: "db", Coll: "coll"}

			Expect(ns.String()).To(Equal("db.coll"))
			Expect(ns.ChannelPrefix()).To(Equal("db.coll:"))
			Expect(ns.Channel("doc1")).To(Equal("db.coll:doc1"))
		})
	})

	Context("DecodeChangeEvent", func() {
		It("decodes an update event in field order", func() {
			raw := changeDocument("doc1", bson.D{
				{Key: "val.count", Value: int32(3)},
				{Key: "ts.updatedAt", Value: primitive.NewDateTimeFromTime(fixedTime)},
				{Key: "unrelated", Value: int32(1)},
			})

			event, err := cdc.DecodeChangeEvent(raw)
			Expect(err).ToNot(HaveOccurred())
			Expect(event.Namespace).To(Equal(cdc.Namespace{DB: "db", Coll: "coll"}))
			Expect(event.DocumentID).To(Equal("doc1"))
			Expect(event.ChangedFields).To(HaveLen(3))
			Expect(event.ChangedFields[0].Path).To(Equal("val.count"))
			Expect(event.ChangedFields[1].Path).To(Equal("ts.updatedAt"))
			Expect(event.ChangedFields[1].Value.Type).To(Equal(bsontype.DateTime))
			Expect(event.ChangedFields[2].Path).To(Equal("unrelated"))
		})

		It("rejects a non-string document id", func() {
			_, err := cdc.DecodeChangeEvent(changeDocument(primitive.NewObjectID(), bson.D{}))
			Expect(err).To(Equal(cdc.ErrBadDocumentKey))
		})

		It("rejects an event without updated fields", func() {
			raw, err := bson.Marshal(bson.D{
				{Key: "ns", Value: bson.D{{Key: "db", Value: "db"}, {Key: "coll", Value: "coll"}}},
				{Key: "documentKey", Value: bson.D{{Key: "_id", Value: "doc1"}}},
			})
			Expect(err).ToNot(HaveOccurred())

			_, err = cdc.DecodeChangeEvent(raw)
			Expect(err).To(Equal(cdc.ErrMissingUpdatedFields))
		})

		It("rejects garbage", func() {
			_, err := cdc.DecodeChangeEvent(bson.Raw{0x05, 0x00})
			Expect(err).To(HaveOccurred())
		})
	})

	Context("Document", func() {
		It("renders a missing document as an empty object", func() {
			out, err := json.Marshal(map[string]interface{}{"data": cdc.Document(nil)})
			Expect(err).ToNot(HaveOccurred())
			Expect(string(out)).To(Equal(`{"data":{}}`))
		})

		It("renders a document as an object", func() {
			out, err := json.Marshal(cdc.Document{"first": 9, "second": "other"})
			Expect(err).ToNot(HaveOccurred())
			Expect(string(out)).To(Equal(`{"first":9,"second":"other"}`))
		})
	})
})
