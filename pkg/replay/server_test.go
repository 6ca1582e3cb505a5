package replay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/askstream/pkg/ask"
	"github.com/papercomputeco/askstream/pkg/llm"
	"github.com/papercomputeco/askstream/pkg/logger"
)

func chatBody(model string, messages ...llm.Message) io.Reader {
	b, err := json.Marshal(llm.ChatRequest{Model: model, Messages: messages, Stream: true})
	Expect(err).NotTo(HaveOccurred())
	return strings.NewReader(string(b))
}

var _ = Describe("Server", func() {
	Describe("handlers", func() {
		It("streams the configured answer", func() {
			s := New(Config{Answer: "hi there", FragmentSize: 4}, logger.Nop())

			req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", chatBody("m1", llm.NewUserMessage("q")))
			resp, err := s.app.Test(req, -1)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(HavePrefix("text/event-stream"))
			Expect(resp.Header.Get("X-Request-Id")).NotTo(BeEmpty())

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring(`"model":"m1"`))

			_, answer, _ := decodeFrames(body)
			Expect(answer).To(Equal("hi there"))
		})

		It("echoes the last user message when no answer is configured", func() {
			s := New(Config{Model: "replay"}, nil)

			req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", chatBody("",
				llm.NewUserMessage("first"),
				llm.NewAssistantMessage("reply"),
				llm.NewUserMessage("echo me"),
			))
			resp, err := s.app.Test(req, -1)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring(`"model":"replay"`))

			_, answer, _ := decodeFrames(body)
			Expect(answer).To(Equal("echo me"))
		})

		It("rejects a malformed request body", func() {
			s := New(Config{}, nil)

			req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", strings.NewReader("{"))
			resp, err := s.app.Test(req, -1)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("reports health", func() {
			s := New(Config{}, nil)

			resp, err := s.app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil), -1)
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()

			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(MatchJSON(`{"status":"ok"}`))
		})
	})

	Describe("over a real socket", func() {
		const answer = "Grüße aus 東京, café ☕ done"

		var (
			s       *Server
			baseURL string
		)

		start := func(cfg Config) {
			listener, err := net.Listen("tcp", "127.0.0.1:0")
			Expect(err).NotTo(HaveOccurred())

			s = New(cfg, logger.Nop())
			go func() {
				defer GinkgoRecover()
				_ = s.RunWithListener(listener)
			}()

			baseURL = fmt.Sprintf("http://%s", listener.Addr().String())
			Eventually(func() error {
				resp, err := http.Get(baseURL + "/healthz")
				if err != nil {
					return err
				}
				resp.Body.Close()
				return nil
			}).WithTimeout(5 * time.Second).Should(Succeed())
		}

		AfterEach(func() {
			if s != nil {
				Expect(s.Shutdown()).To(Succeed())
				s = nil
			}
		})

		DescribeTable("delivers the answer to the client regardless of fragmentation",
			func(fragmentSize int) {
				start(Config{
					Answer:       answer,
					FragmentSize: fragmentSize,
					Delay:        time.Millisecond,
					Retry:        2000,
					KeepAlive:    true,
				})

				c, err := ask.New(ask.Config{Endpoint: baseURL, Model: "replay"})
				Expect(err).NotTo(HaveOccurred())

				var deltas []string
				got, err := c.Ask(context.Background(), []llm.Message{llm.NewUserMessage("q")}, func(d string) {
					deltas = append(deltas, d)
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(Equal(answer))
				Expect(strings.Join(deltas, "")).To(Equal(answer))
			},
			Entry("one byte per write", 1),
			Entry("two bytes per write", 2),
			Entry("three bytes per write", 3),
			Entry("whole frames", 0),
		)
	})
})
