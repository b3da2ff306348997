package fe_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/logandonley/fontenum/pkg/fe"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var scenario = []fe.Font{
	{Family: "Arial", Style: "Regular", Weight: 400},
	{Family: "Arial", Style: "Bold", Weight: 700},
	{Family: "Courier New", Style: "Regular", Weight: 400, FixedPitch: true},
}

var _ = Describe("Catalog", func() {
	It("should replace its contents wholesale", func() {
		var c fe.Catalog
		c.ReplaceWith(scenario)
		c.ReplaceWith(scenario[:1])
		Expect(c.Len()).To(Equal(1))
		Expect(c.At(0).Style).To(Equal("Regular"))
	})

	It("should be idempotent when replaced twice with the same fonts", func() {
		var once, twice fe.Catalog
		once.ReplaceWith(scenario)
		twice.ReplaceWith(scenario)
		twice.ReplaceWith(scenario)
		Expect(cmp.Diff(once.Fonts(), twice.Fonts())).To(BeEmpty())
	})

	It("should not alias the caller's slice", func() {
		input := append([]fe.Font(nil), scenario...)
		var c fe.Catalog
		c.ReplaceWith(input)
		input[0].Family = "Changed"
		Expect(c.At(0).Family).To(Equal("Arial"))
	})

	It("should empty on clear", func() {
		var c fe.Catalog
		c.ReplaceWith(scenario)
		c.Clear()
		Expect(c.Len()).To(BeZero())
		Expect(c.Fonts()).To(BeEmpty())
	})
})

var _ = Describe("Filter", func() {
	It("should match family or style case-insensitively", func() {
		Expect(fe.Apply(scenario, "arial")).To(Equal([]int{0, 1}))
		Expect(fe.Apply(scenario, "ARIAL")).To(Equal([]int{0, 1}))
		Expect(fe.Apply(scenario, "Arial")).To(Equal([]int{0, 1}))
		Expect(fe.Apply(scenario, "bold")).To(Equal([]int{1}))
		Expect(fe.Apply(scenario, "regular")).To(Equal([]int{0, 2}))
	})

	It("should return everything in order for an empty query", func() {
		Expect(fe.Apply(scenario, "")).To(Equal([]int{0, 1, 2}))
	})

	It("should return nothing when no font matches", func() {
		Expect(fe.Apply(scenario, "XYZ")).To(BeEmpty())
	})

	It("should handle an empty catalog", func() {
		Expect(fe.Apply(nil, "")).To(BeEmpty())
		Expect(fe.Apply(nil, "arial")).To(BeEmpty())
	})

	It("should only ever remove fonts from the unfiltered view", func() {
		all := fe.Apply(scenario, "")
		for _, q := range []string{"a", "ri", "new", "o", "Courier New Regular", " "} {
			view := fe.Apply(scenario, q)
			Expect(all).To(ContainElements(view))
			for i := 1; i < len(view); i++ {
				Expect(view[i]).To(BeNumerically(">", view[i-1]))
			}
		}
	})

	It("should fold non-ASCII letters", func() {
		fonts := []fe.Font{{Family: "ÉLAN Sans"}, {Family: "Ωmega"}}
		Expect(fe.Apply(fonts, "élan")).To(Equal([]int{0}))
		Expect(fe.Apply(fonts, "ωMEGA")).To(Equal([]int{1}))
		Expect(fe.Matches(fonts[1], "ΩMEGA")).To(BeTrue())
	})

	It("should fold sigma the same way wherever it appears", func() {
		fonts := []fe.Font{{Family: "ΑΣΤΡΑ"}, {Family: "ΟΔΟΣ"}}
		Expect(fe.Apply(fonts, "Α")).To(Equal([]int{0}))
		Expect(fe.Apply(fonts, "ΑΣ")).To(Equal([]int{0}))
		Expect(fe.Apply(fonts, "ασ")).To(Equal([]int{0}))
		Expect(fe.Apply(fonts, "Σ")).To(Equal([]int{0, 1}))
		Expect(fe.Apply(fonts, "σ")).To(Equal([]int{0, 1}))
		Expect(fe.Apply(fonts, "ς")).To(Equal([]int{0, 1}))
		Expect(fe.Matches(fonts[1], "δοσ")).To(BeTrue())
	})
})

var _ = Describe("Session", func() {
	var (
		session *fe.Session
		legacy  *mockSource
		fontset *mockSource
		ctx     context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		session = fe.NewSession(fe.WithTimeout(time.Second))
		legacy = &mockSource{kind: fe.KindLegacy, fonts: scenario}
		fontset = &mockSource{kind: fe.KindFontSet, fonts: []fe.Font{
			{Family: "Bahnschrift", Style: "Regular", Weight: 400, IsVariable: true, VariableAxes: "wght 300-700"},
		}}
		Expect(session.RegisterSource(legacy)).To(Succeed())
		Expect(session.RegisterSource(fontset)).To(Succeed())
	})

	It("should reject nil and duplicate sources", func() {
		Expect(session.RegisterSource(nil)).NotTo(Succeed())
		err := session.RegisterSource(&mockSource{kind: fe.KindLegacy})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("already registered"))
	})

	It("should report a missing source", func() {
		err := session.Enumerate(ctx, fe.KindModern)
		Expect(errors.Is(err, fe.ErrNoSource)).To(BeTrue())
	})

	It("should start empty", func() {
		Expect(session.Catalog()).To(BeEmpty())
		Expect(session.View()).To(BeEmpty())
		Expect(session.Mode()).To(Equal(fe.KindNone))
		Expect(session.Status()).To(Equal("No Enumeration: Found 0 fonts"))
	})

	It("should fill the catalog and the view", func() {
		Expect(session.Enumerate(ctx, fe.KindLegacy)).To(Succeed())
		Expect(session.Catalog()).To(Equal(scenario))
		Expect(session.View()).To(Equal([]int{0, 1, 2}))
		Expect(session.Mode()).To(Equal(fe.KindLegacy))
		Expect(session.Status()).To(Equal("Legacy Enumeration: Found 3 fonts"))
	})

	It("should re-filter without enumerating again", func() {
		Expect(session.Enumerate(ctx, fe.KindLegacy)).To(Succeed())
		session.SetQuery("arial")
		Expect(session.View()).To(Equal([]int{0, 1}))
		Expect(session.Status()).To(Equal("Legacy Enumeration: Showing 2 of 3 fonts"))
		Expect(legacy.calls).To(Equal(1))
	})

	It("should keep the query across sources", func() {
		session.SetQuery("bahn")
		Expect(session.Enumerate(ctx, fe.KindLegacy)).To(Succeed())
		Expect(session.View()).To(BeEmpty())
		Expect(session.Enumerate(ctx, fe.KindFontSet)).To(Succeed())
		Expect(session.Query()).To(Equal("bahn"))
		Expect(session.Visible()).To(HaveLen(1))
		Expect(session.Status()).To(Equal("FontSet Enumeration: Showing 1 of 1 fonts"))
	})

	It("should select by view row", func() {
		Expect(session.Enumerate(ctx, fe.KindLegacy)).To(Succeed())
		session.SetQuery("courier")
		font, ok := session.Select(0)
		Expect(ok).To(BeTrue())
		Expect(font.Family).To(Equal("Courier New"))

		selected, ok := session.Selected()
		Expect(ok).To(BeTrue())
		Expect(selected).To(Equal(font))

		_, ok = session.Select(5)
		Expect(ok).To(BeFalse())
	})

	It("should clear the selection on request", func() {
		Expect(session.Enumerate(ctx, fe.KindLegacy)).To(Succeed())
		_, ok := session.Select(0)
		Expect(ok).To(BeTrue())
		session.ClearSelection()
		_, ok = session.Selected()
		Expect(ok).To(BeFalse())
		Expect(session.Catalog()).To(HaveLen(3))
	})

	It("should list sources in registration order", func() {
		sources := session.Sources()
		Expect(sources).To(HaveLen(2))
		Expect(sources[0].Kind()).To(Equal(fe.KindLegacy))
		Expect(sources[1].Kind()).To(Equal(fe.KindFontSet))

		sources[0] = nil
		Expect(session.Sources()[0]).NotTo(BeNil())
	})

	It("should clear the selection when a new enumeration begins", func() {
		Expect(session.Enumerate(ctx, fe.KindLegacy)).To(Succeed())
		_, ok := session.Select(1)
		Expect(ok).To(BeTrue())
		Expect(session.Enumerate(ctx, fe.KindFontSet)).To(Succeed())
		_, ok = session.Selected()
		Expect(ok).To(BeFalse())
	})

	It("should discard the previous catalog when a source fails", func() {
		Expect(session.Enumerate(ctx, fe.KindLegacy)).To(Succeed())
		fontset.failure = fmt.Errorf("fontset: %w", fe.ErrServiceUnavailable)

		err := session.Enumerate(ctx, fe.KindFontSet)
		Expect(errors.Is(err, fe.ErrServiceUnavailable)).To(BeTrue())
		Expect(session.Catalog()).To(BeEmpty())
		Expect(session.View()).To(BeEmpty())
		Expect(session.Status()).To(Equal("No Enumeration: Found 0 fonts"))
	})

	It("should discard results of a superseded enumeration", func() {
		first := session.Begin(fe.KindLegacy)
		second := session.Begin(fe.KindFontSet)

		Expect(session.Complete(first, scenario, nil)).To(MatchError(fe.ErrSuperseded))
		Expect(session.Catalog()).To(BeEmpty())

		fonts, err := session.Fetch(ctx, second.Kind())
		Expect(err).NotTo(HaveOccurred())
		Expect(session.Complete(second, fonts, nil)).To(Succeed())
		Expect(session.Mode()).To(Equal(fe.KindFontSet))
		Expect(session.Catalog()).To(HaveLen(1))
	})

	It("should clear the catalog as soon as an enumeration begins", func() {
		Expect(session.Enumerate(ctx, fe.KindLegacy)).To(Succeed())
		session.Begin(fe.KindFontSet)
		Expect(session.Catalog()).To(BeEmpty())
		Expect(session.View()).To(BeEmpty())
	})
})
