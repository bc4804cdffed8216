package relay

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/batchcorp/changestream/backends/backendsfakes"
	"github.com/batchcorp/changestream/cdc"
	"github.com/batchcorp/changestream/roundtrip"
)

var _ = Describe("Relay", func() {
	var (
		broker   *backendsfakes.FakeIBroker
		updateCh chan *cdc.ChannelPayload
		healthTx *roundtrip.Sender[struct{}, bool]
		healthRx *roundtrip.Receiver[struct{}, bool]
		r        *Relay
		done     chan struct{}
	)

	BeforeEach(func() {
		broker = &backendsfakes.FakeIBroker{}
		broker.NameReturns("fake")

		updateCh = make(chan *cdc.ChannelPayload, 10)
		healthTx, healthRx = roundtrip.New[struct{}, bool](1)

		var err error

		r, err = New(&Config{
			Broker:   broker,
			UpdateCh: updateCh,
			Health:   healthRx,
		})
		Expect(err).ToNot(HaveOccurred())

		done = make(chan struct{})
	})

	start := func() {
		go func() {
			r.Run()
			close(done)
		}()
	}

	stop := func() {
		close(updateCh)
		healthTx.Close()
		Eventually(done).Should(BeClosed())
	}

	Context("validateConfig", func() {
		It("validates broker", func() {
			Expect(validateConfig(&Config{UpdateCh: updateCh, Health: healthRx})).To(Equal(ErrMissingBroker))
		})

		It("validates update channel", func() {
			Expect(validateConfig(&Config{Broker: broker, Health: healthRx})).To(Equal(ErrMissingUpdateCh))
		})

		It("validates health receiver", func() {
			Expect(validateConfig(&Config{Broker: broker, UpdateCh: updateCh})).To(Equal(ErrMissingHealth))
		})

		It("sets default timeouts", func() {
			cfg := &Config{Broker: broker, UpdateCh: updateCh, Health: healthRx}
			Expect(validateConfig(cfg)).To(Succeed())
			Expect(cfg.PublishTimeout).To(Equal(DefaultPublishTimeout))
			Expect(cfg.HealthTimeout).To(Equal(DefaultHealthTimeout))
		})
	})

	Context("Run", func() {
		It("publishes updates in order", func() {
			start()

			first := &cdc.ChannelPayload{Channel: "db:coll:1"}
			second := &cdc.ChannelPayload{Channel: "db:coll:2"}
			updateCh <- first
			updateCh <- second

			stop()

			Expect(broker.PublishCallCount()).To(Equal(2))

			_, channel, data := broker.PublishArgsForCall(0)
			Expect(channel).To(Equal("db:coll:1"))
			Expect(data).To(Equal(first))

			_, channel, data = broker.PublishArgsForCall(1)
			Expect(channel).To(Equal("db:coll:2"))
			Expect(data).To(Equal(second))
		})

		It("drops an update that fails to publish and carries on", func() {
			broker.PublishReturnsOnCall(0, errors.New("broker down"))
			start()

			updateCh <- &cdc.ChannelPayload{Channel: "db:coll:1"}
			updateCh <- &cdc.ChannelPayload{Channel: "db:coll:2"}

			stop()

			Expect(broker.PublishCallCount()).To(Equal(2))
		})

		It("bounds each publish with a deadline", func() {
			start()

			updateCh <- &cdc.ChannelPayload{Channel: "db:coll:1"}

			stop()

			ctx, _, _ := broker.PublishArgsForCall(0)
			_, ok := ctx.Deadline()
			Expect(ok).To(BeTrue())
		})

		It("replies true to a health probe when the broker accepts it", func() {
			start()

			healthy, err := healthTx.Roundtrip(context.Background(), struct{}{})
			Expect(err).ToNot(HaveOccurred())
			Expect(healthy).To(BeTrue())

			_, channel, data := broker.PublishArgsForCall(0)
			Expect(channel).To(Equal(HealthChannel))
			Expect(data).To(BeNil())

			stop()
		})

		It("replies false to a health probe when the broker fails", func() {
			broker.PublishReturns(errors.New("broker down"))
			start()

			healthy, err := healthTx.Roundtrip(context.Background(), struct{}{})
			Expect(err).ToNot(HaveOccurred())
			Expect(healthy).To(BeFalse())

			stop()
		})

		It("keeps serving health probes after the update queue closes", func() {
			start()

			close(updateCh)

			healthy, err := healthTx.Roundtrip(context.Background(), struct{}{})
			Expect(err).ToNot(HaveOccurred())
			Expect(healthy).To(BeTrue())

			Consistently(done, 50*time.Millisecond).ShouldNot(BeClosed())

			healthTx.Close()
			Eventually(done).Should(BeClosed())
		})

		It("keeps publishing after the health queue closes", func() {
			start()

			healthTx.Close()
			updateCh <- &cdc.ChannelPayload{Channel: "db:coll:1"}

			Eventually(broker.PublishCallCount).Should(Equal(1))
			Consistently(done, 50*time.Millisecond).ShouldNot(BeClosed())

			close(updateCh)
			Eventually(done).Should(BeClosed())
		})
	})
})
