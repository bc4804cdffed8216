package cdc_test

import (
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/batchcorp/changestream/cdc"
	"github.com/batchcorp/changestream/cdc/cdcfakes"
)

// scriptedStream feeds the given documents, then blocks until ctx is done
func scriptedStream(docs ...bson.Raw) *cdcfakes.FakeIChangeStream {
	stream := &cdcfakes.FakeIChangeStream{}

	var mtx sync.Mutex
	var current bson.Raw

	stream.NextStub = func(ctx context.Context) bool {
		mtx.Lock()

		if len(docs) > 0 {
			current, docs = docs[0], docs[1:]
			mtx.Unlock()
			return true
		}

		mtx.Unlock()

		<-ctx.Done()
		return false
	}

	stream.CurrentStub = func() bson.Raw {
		mtx.Lock()
		defer mtx.Unlock()

		return current
	}

	stream.ErrStub = func() error {
		return context.Canceled
	}

	return stream
}

var _ = Describe("Ingester", func() {
	var ctx context.Context
	var cancel context.CancelFunc
	var updateCh chan *cdc.ChannelPayload

	BeforeEach(func() {
		ctx, cancel = context.WithCancel(context.Background())
		updateCh = make(chan *cdc.ChannelPayload, 10)
	})

	AfterEach(func() {
		cancel()
	})

	Context("NewIngester", func() {
		It("validates the stream", func() {
			_, err := cdc.NewIngester(&cdc.IngesterConfig{
				UpdateCh:           updateCh,
				ServiceShutdownCtx: ctx,
				MainShutdownFunc:   cancel,
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(cdc.ErrMissingStream.Error()))
		})

		It("validates the update channel", func() {
			_, err := cdc.NewIngester(&cdc.IngesterConfig{
				Stream:             &cdcfakes.FakeIChangeStream{},
				ServiceShutdownCtx: ctx,
				MainShutdownFunc:   cancel,
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(cdc.ErrMissingUpdateCh.Error()))
		})

		It("validates the shutdown context and func", func() {
			_, err := cdc.NewIngester(&cdc.IngesterConfig{
				Stream:           &cdcfakes.FakeIChangeStream{},
				UpdateCh:         updateCh,
				MainShutdownFunc: cancel,
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(cdc.ErrMissingShutdownCtx.Error()))

			_, err = cdc.NewIngester(&cdc.IngesterConfig{
				Stream:             &cdcfakes.FakeIChangeStream{},
				UpdateCh:           updateCh,
				ServiceShutdownCtx: ctx,
			})
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(cdc.ErrMissingMainShutdownFunc.Error()))
		})
	})

	Context("Run", func() {
		It("forwards payloads in stream order and exits cleanly on shutdown", func() {
			stream := scriptedStream(
				changeDocument("a", bson.D{{Key: "val.n", Value: int32(1)}}),
				changeDocument("b", bson.D{{Key: "val.n", Value: int32(2)}}),
				changeDocument("c", bson.D{{Key: "ts.t", Value: primitive.NewDateTimeFromTime(fixedTime)}}),
			)

			ingester, err := cdc.NewIngester(&cdc.IngesterConfig{
				Stream:             stream,
				UpdateCh:           updateCh,
				ServiceShutdownCtx: ctx,
				MainShutdownFunc:   cancel,
			})
			Expect(err).ToNot(HaveOccurred())

			errCh := make(chan error, 1)
			go func() {
				errCh <- ingester.Run()
			}()

			var p *cdc.ChannelPayload
			Eventually(updateCh).Should(Receive(&p))
			Expect(p.Channel).To(Equal("db.coll:a"))
			Eventually(updateCh).Should(Receive(&p))
			Expect(p.Channel).To(Equal("db.coll:b"))
			Eventually(updateCh).Should(Receive(&p))
			Expect(p.Channel).To(Equal("db.coll:c"))
			Expect(p.Timestamps).To(HaveKeyWithValue("t", fixedTime))

			cancel()

			Eventually(errCh).Should(Receive(BeNil()))
			Expect(stream.CloseCallCount()).To(Equal(1))
		})

		It("treats a cursor error as fatal and raises the shutdown signal", func() {
			stream := &cdcfakes.FakeIChangeStream{}
			stream.NextReturns(false)
			stream.ErrReturns(errors.New("connection reset"))

			var shutdownCalled bool

			ingester, err := cdc.NewIngester(&cdc.IngesterConfig{
				Stream:             stream,
				UpdateCh:           updateCh,
				ServiceShutdownCtx: ctx,
				MainShutdownFunc: func() {
					shutdownCalled = true
					cancel()
				},
			})
			Expect(err).ToNot(HaveOccurred())

			err = ingester.Run()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("connection reset"))
			Expect(shutdownCalled).To(BeTrue())
			Expect(ctx.Err()).To(HaveOccurred())
			Expect(stream.CloseCallCount()).To(Equal(1))
		})

		It("treats an exhausted stream as fatal", func() {
			stream := &cdcfakes.FakeIChangeStream{}
			stream.NextReturns(false)

			ingester, err := cdc.NewIngester(&cdc.IngesterConfig{
				Stream:             stream,
				UpdateCh:           updateCh,
				ServiceShutdownCtx: ctx,
				MainShutdownFunc:   cancel,
			})
			Expect(err).ToNot(HaveOccurred())

			err = ingester.Run()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(cdc.ErrStreamExhausted.Error()))
		})

		It("treats a decode failure as fatal", func() {
			stream := scriptedStream(changeDocument(primitive.NewObjectID(), bson.D{}))

			var shutdownCalled bool

			ingester, err := cdc.NewIngester(&cdc.IngesterConfig{
				Stream:             stream,
				UpdateCh:           updateCh,
				ServiceShutdownCtx: ctx,
				MainShutdownFunc: func() {
					shutdownCalled = true
					cancel()
				},
			})
			Expect(err).ToNot(HaveOccurred())

			err = ingester.Run()
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring(cdc.ErrBadDocumentKey.Error()))
			Expect(shutdownCalled).To(BeTrue())
			Expect(updateCh).To(BeEmpty())
		})

		It("drops updates when the publisher queue stays full", func() {
			fullCh := make(chan *cdc.ChannelPayload, 1)
			fullCh <- &cdc.ChannelPayload{Channel: "blocker"}

			stream := scriptedStream(
				changeDocument("a", bson.D{{Key: "val.n", Value: int32(1)}}),
				changeDocument("b", bson.D{{Key: "val.n", Value: int32(2)}}),
			)

			ingester, err := cdc.NewIngester(&cdc.IngesterConfig{
				Stream:             stream,
				UpdateCh:           fullCh,
				SendTimeout:        10 * time.Millisecond,
				ServiceShutdownCtx: ctx,
				MainShutdownFunc:   cancel,
			})
			Expect(err).ToNot(HaveOccurred())

			errCh := make(chan error, 1)
			go func() {
				errCh <- ingester.Run()
			}()

			// Both events are read (and dropped) without blocking the cursor
			Eventually(stream.CurrentCallCount).Should(Equal(2))
			Eventually(stream.NextCallCount).Should(Equal(3))

			cancel()

			Eventually(errCh).Should(Receive(BeNil()))
			Expect(fullCh).To(HaveLen(1))
			Expect((<-fullCh).Channel).To(Equal("blocker"))
		})
	})
})
