package nats

import (
	"context"
	"errors"
	"io/ioutil"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"
)

type stubConn struct {
	subject     string
	data        []byte
	publishErr  error
	flushErr    error
	hadDeadline bool
	closed      bool
}

func (s *stubConn) Publish(subject string, data []byte) error {
	s.subject = subject
	s.data = data
	return s.publishErr
}

func (s *stubConn) FlushWithContext(ctx context.Context) error {
	_, s.hadDeadline = ctx.Deadline()
	return s.flushErr
}

func (s *stubConn) Close() {
	s.closed = true
}

var _ = Describe("NATS Backend", func() {
	var n *Nats
	var stub *stubConn

	BeforeEach(func() {
		stub = &stubConn{}

		n = &Nats{
			Config: &Config{URL: "nats://localhost:4222", FlushTimeout: DefaultFlushTimeout},
			client: stub,
			log:    logrus.NewEntry(&logrus.Logger{Out: ioutil.Discard}),
		}
	})

	Context("validateConfig", func() {
		It("validates URL", func() {
			Expect(validateConfig(&Config{})).To(Equal(ErrMissingURL))
		})

		It("sets a default flush timeout", func() {
			cfg := &Config{URL: "nats://localhost:4222"}
			Expect(validateConfig(cfg)).To(Succeed())
			Expect(cfg.FlushTimeout).To(Equal(DefaultFlushTimeout))
		})
	})

	Context("Name", func() {
		It("should return the name", func() {
			Expect(n.Name()).To(Equal(BackendName))
		})
	})

	Context("Publish", func() {
		It("publishes JSON and flushes with a deadline", func() {
			Expect(n.Publish(context.Background(), "db:coll:id1", []int{1, 2})).To(Succeed())
			Expect(stub.subject).To(Equal("db:coll:id1"))
			Expect(stub.data).To(Equal([]byte(`[1,2]`)))
			Expect(stub.hadDeadline).To(BeTrue())
		})

		It("returns publish errors", func() {
			stub.publishErr = errors.New("nats: connection closed")

			err := n.Publish(context.Background(), "a", nil)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("connection closed"))
		})

		It("returns flush errors", func() {
			stub.flushErr = errors.New("nats: timeout")

			err := n.Publish(context.Background(), "a", nil)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("unable to flush"))
		})
	})

	Context("Close", func() {
		It("closes the connection", func() {
			Expect(n.Close()).To(Succeed())
			Expect(stub.closed).To(BeTrue())
		})
	})
})
