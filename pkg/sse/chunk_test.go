package sse

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing/iotest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// scriptedReader returns one scripted step per Read call and counts calls.
type scriptedReader struct {
	steps []readStep
	reads int
}

type readStep struct {
	data []byte
	err  error
}

func (r *scriptedReader) Read(p []byte) (int, error) {
	r.reads++
	if len(r.steps) == 0 {
		return 0, io.EOF
	}
	step := r.steps[0]
	r.steps = r.steps[1:]
	n := copy(p, step.data)
	return n, step.err
}

var errBoom = errors.New("connection reset")

var _ = Describe("ChunkReader", func() {
	Describe("Next", func() {
		It("returns chunks in order and then io.EOF", func() {
			src := &scriptedReader{steps: []readStep{
				{data: []byte("data: a\n")},
				{data: []byte("\n")},
			}}
			r := NewChunkReader(src)

			text, err := r.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("data: a\n"))

			text, err = r.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("\n"))

			_, err = r.Next()
			Expect(err).To(Equal(io.EOF))
		})

		It("tolerates zero-length reads", func() {
			src := &scriptedReader{steps: []readStep{
				{},
				{data: []byte("x")},
			}}
			r := NewChunkReader(src)

			text, err := r.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(BeEmpty())

			text, err = r.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("x"))
		})

		It("returns data delivered together with io.EOF", func() {
			src := &scriptedReader{steps: []readStep{
				{data: []byte("data: x\n\n"), err: io.EOF},
			}}
			r := NewChunkReader(src)

			text, err := r.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("data: x\n\n"))

			_, err = r.Next()
			Expect(err).To(Equal(io.EOF))
		})

		It("stops reading once the source completed", func() {
			src := &scriptedReader{}
			r := NewChunkReader(src)

			_, err := r.Next()
			Expect(err).To(Equal(io.EOF))
			_, err = r.Next()
			Expect(err).To(Equal(io.EOF))
			Expect(src.reads).To(Equal(1))
		})

		It("reports read failures as a terminal StreamReadError", func() {
			src := &scriptedReader{steps: []readStep{
				{data: []byte("partial"), err: errBoom},
				{data: []byte("never read")},
			}}
			r := NewChunkReader(src)

			text, err := r.Next()
			Expect(text).To(BeEmpty())

			var readErr *StreamReadError
			Expect(errors.As(err, &readErr)).To(BeTrue())
			Expect(errors.Is(err, errBoom)).To(BeTrue())
			Expect(err.Error()).To(ContainSubstring("connection reset"))

			_, again := r.Next()
			Expect(again).To(BeIdenticalTo(err))
			Expect(src.reads).To(Equal(1))
		})

		It("reassembles characters split across reads", func() {
			payload := []byte("data: ✓\n\n")
			r := NewChunkReader(iotest.OneByteReader(strings.NewReader(string(payload))))

			var sb strings.Builder
			for {
				text, err := r.Next()
				sb.WriteString(text)
				if err == io.EOF {
					break
				}
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(sb.String()).To(Equal("data: ✓\n\n"))
		})

		It("flushes a dangling partial character at completion", func() {
			src := &scriptedReader{steps: []readStep{
				{data: []byte("data: ")},
				{data: []byte("é")[:1], err: io.EOF},
			}}
			r := NewChunkReader(src)

			text, err := r.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("data: "))

			text, err = r.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("�"))
		})

		It("honours the configured read size", func() {
			r := NewChunkReader(strings.NewReader("abcdef"), WithReadSize(4))

			text, err := r.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("abcd"))

			text, err = r.Next()
			Expect(err).NotTo(HaveOccurred())
			Expect(text).To(Equal("ef"))
		})
	})

	Describe("Run", func() {
		It("pumps every non-empty chunk and returns nil at completion", func() {
			src := &scriptedReader{steps: []readStep{
				{data: []byte("a")},
				{},
				{data: []byte("b")},
			}}

			var chunks []string
			err := NewChunkReader(src).Run(context.Background(), func(text string) {
				chunks = append(chunks, text)
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(chunks).To(Equal([]string{"a", "b"}))
		})

		It("delivers nothing after a read failure", func() {
			src := &scriptedReader{steps: []readStep{
				{data: []byte("a")},
				{data: []byte("b"), err: errBoom},
				{data: []byte("c")},
			}}

			var chunks []string
			err := NewChunkReader(src).Run(context.Background(), func(text string) {
				chunks = append(chunks, text)
			})

			var readErr *StreamReadError
			Expect(errors.As(err, &readErr)).To(BeTrue())
			Expect(chunks).To(Equal([]string{"a"}))
		})

		It("stops before the next read when the context is cancelled", func() {
			src := &scriptedReader{steps: []readStep{
				{data: []byte("a")},
				{data: []byte("b")},
			}}
			ctx, cancel := context.WithCancel(context.Background())

			var chunks []string
			err := NewChunkReader(src).Run(ctx, func(text string) {
				chunks = append(chunks, text)
				cancel()
			})
			Expect(err).To(MatchError(context.Canceled))
			Expect(chunks).To(Equal([]string{"a"}))
			Expect(src.reads).To(Equal(1))
		})
	})
})
