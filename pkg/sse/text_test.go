package sse

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("textDecoder", func() {
	It("passes ASCII through", func() {
		d := newTextDecoder()
		Expect(d.decode([]byte("data: x\n\n"), false)).To(Equal("data: x\n\n"))
	})

	It("holds back a character split across reads", func() {
		check := []byte("✓") // 3 bytes
		d := newTextDecoder()

		Expect(d.decode([]byte{'a', check[0]}, false)).To(Equal("a"))
		Expect(d.decode(check[1:2], false)).To(BeEmpty())
		Expect(d.decode(append(append([]byte{}, check[2]), 'b'), false)).To(Equal("✓b"))
	})

	It("replaces invalid bytes", func() {
		d := newTextDecoder()
		Expect(d.decode([]byte{'a', 0xff, 'b'}, false)).To(Equal("a�b"))
	})

	It("flushes an incomplete trailing sequence as a replacement character", func() {
		d := newTextDecoder()
		Expect(d.decode([]byte("é")[:1], false)).To(BeEmpty())
		Expect(d.flush()).To(Equal("�"))
		Expect(d.flush()).To(BeEmpty())
	})

	It("grows its output buffer for replacement-heavy input", func() {
		d := newTextDecoder()
		in := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
		Expect(d.decode(in, false)).To(Equal("������"))
	})
})
