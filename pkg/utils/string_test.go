package utils

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("truncate", func() {
	It("returns the string unchanged when within the limit", func() {
		Expect(Truncate("short", 10)).To(Equal("short"))
	})

	It("returns the string unchanged when exactly at the limit", func() {
		Expect(Truncate("12345", 5)).To(Equal("12345"))
	})

	It("truncates with ellipsis when over the limit", func() {
		result := Truncate("this is a long string", 10)
		Expect(result).To(Equal("this is a ..."))
	})
})

var _ = Describe("truncate with zero limit", func() {
	It("returns only the ellipsis", func() {
		Expect(Truncate("abc", 0)).To(Equal("..."))
	})
})

var _ = Describe("UserAgent", func() {
	It("carries the build version", func() {
		DeferCleanup(func(v string) { Version = v }, Version)
		Version = "1.2.3"
		Expect(UserAgent()).To(Equal("askstream/1.2.3"))
	})
})
