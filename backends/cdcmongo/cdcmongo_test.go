package cdcmongo

import (
	"context"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/batchcorp/changestream/cdc"
)

var _ = Describe("CDC Mongo Backend", func() {
	Context("validateConfig", func() {
		It("validates nil config", func() {
			Expect(validateConfig(nil)).To(HaveOccurred())
		})

		It("validates URI", func() {
			err := validateConfig(&Config{Database: "db", Collection: "coll"})
			Expect(err).To(Equal(ErrMissingURI))
		})

		It("validates database", func() {
			err := validateConfig(&Config{URI: "mongodb://localhost", Collection: "coll"})
			Expect(err).To(Equal(ErrMissingDatabase))
		})

		It("validates collection", func() {
			err := validateConfig(&Config{URI: "mongodb://localhost", Database: "db"})
			Expect(err).To(Equal(ErrMissingCollection))
		})

		It("passes validation", func() {
			err := validateConfig(&Config{URI: "mongodb://localhost", Database: "db", Collection: "coll"})
			Expect(err).ToNot(HaveOccurred())
		})
	})

	Context("New", func() {
		It("rejects an unparsable URI", func() {
			_, err := New(&Config{URI: "http://localhost", Database: "db", Collection: "coll"})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(ErrConnectionFailed.Error()))
		})

		It("creates a client without contacting the server", func() {
			m, err := New(&Config{
				URI:        "mongodb://localhost:27017",
				Database:   "db",
				Collection: "coll",
				AppName:    "changestream-test",
			})
			Expect(err).ToNot(HaveOccurred())
			Expect(m.Name()).To(Equal(BackendName))
			Expect(m.Namespace()).To(Equal(cdc.Namespace{DB: "db", Coll: "coll"}))
			Expect(m.Close(context.Background())).To(Succeed())
		})
	})
})
