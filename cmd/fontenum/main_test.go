package main

import (
	"github.com/logandonley/fontenum/pkg/fe"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("findFont", func() {
	fonts := []fe.Font{
		{Family: "DejaVu Sans", Style: "Book"},
		{Family: "DejaVu Sans", Style: "Bold", Weight: 700},
	}

	It("should return the first face of the family without a style", func() {
		font, ok := findFont(fonts, "dejavu sans", "")
		Expect(ok).To(BeTrue())
		Expect(font.Style).To(Equal("Book"))
	})

	It("should match the style without case", func() {
		font, ok := findFont(fonts, "DejaVu Sans", "BOLD")
		Expect(ok).To(BeTrue())
		Expect(font.Weight).To(Equal(700))
	})

	It("should report missing fonts", func() {
		_, ok := findFont(fonts, "DejaVu Sans", "Italic")
		Expect(ok).To(BeFalse())
		_, ok = findFont(nil, "Arial", "")
		Expect(ok).To(BeFalse())
	})
})
