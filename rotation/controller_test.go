package rotation

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/carousel/hooking"
	"github.com/sarchlab/carousel/layout"
	"github.com/sarchlab/carousel/timing"
	"github.com/sarchlab/carousel/viewport"
)

type hookRecorder struct {
	ctxs []hooking.HookCtx
}

func (r *hookRecorder) Func(ctx hooking.HookCtx) {
	r.ctxs = append(r.ctxs, ctx)
}

func (r *hookRecorder) at(pos *hooking.HookPos) []hooking.HookCtx {
	var out []hooking.HookCtx

	for _, ctx := range r.ctxs {
		if ctx.Pos == pos {
			out = append(out, ctx)
		}
	}

	return out
}

func (r *hookRecorder) transitions(pos *hooking.HookPos) []Transition {
	var out []Transition

	for _, ctx := range r.at(pos) {
		out = append(out, ctx.Item.(Transition))
	}

	return out
}

func ints(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}

	return out
}

var _ = Describe("Controller", func() {
	var (
		engine   *timing.SerialEngine
		recorder *hookRecorder
		builder  Builder[int]
	)

	BeforeEach(func() {
		engine = timing.NewSerialEngine()
		recorder = &hookRecorder{}
		builder = MakeBuilder[int]().
			WithEngine(engine).
			WithSettleDelay(300 * time.Millisecond).
			WithHooks(recorder)
	})

	It("should panic without an engine", func() {
		Expect(func() { MakeBuilder[int]().Build("Carousel") }).To(Panic())
	})

	Context("with an empty collection", func() {
		It("should stay idle", func() {
			c := builder.WithAutoAdvance(3 * time.Second).Build("Carousel")

			s := c.Snapshot()
			Expect(s.State).To(Equal(StateIdle))
			Expect(s.HasPage).To(BeFalse())
			Expect(s.PageCount).To(Equal(0))
			Expect(s.CurrentPage).To(Equal(0))
			Expect(s.VisibleItems).To(BeEmpty())
			Expect(s.AutoAdvancePending).To(BeFalse())

			Expect(c.Next()).To(BeFalse())
			Expect(c.Prev()).To(BeFalse())
			Expect(c.GoTo(3)).To(BeFalse())
			Expect(engine.Pending()).To(Equal(0))
		})
	})

	Context("with a single page", func() {
		It("should not arm the timer", func() {
			c := builder.
				WithAutoAdvance(3 * time.Second).
				WithBreakpoints(layout.Hero).
				WithWidth(1024).
				WithItems(ints(3)).
				Build("Hero")

			Expect(c.Status().State).To(Equal(StateIdle))
			Expect(c.Snapshot().VisibleItems).To(Equal([]int{0, 1, 2}))
			Expect(engine.Pending()).To(Equal(0))

			Expect(c.Next()).To(BeFalse())
			rejections := recorder.at(HookPosNavigationRejected)
			Expect(rejections).To(HaveLen(1))
			Expect(rejections[0].Item.(Rejection).Reason).To(Equal("single page"))
		})
	})

	Context("with an unsorted breakpoint table", func() {
		It("should resolve and normalize the table", func() {
			c := builder.
				WithBreakpoints(layout.Table{
					{MinWidth: 768, Count: 3},
					{MinWidth: 0, Count: 1},
				}).
				WithWidth(1024).
				WithItems(ints(6)).
				Build("Hero")

			Expect(c.Status().ItemsPerPage).To(Equal(3))
			Expect(c.Config().Breakpoints).To(Equal(layout.NewTable(
				layout.Breakpoint{MinWidth: 0, Count: 1},
				layout.Breakpoint{MinWidth: 768, Count: 3},
			)))

			c.Resize(375)
			Expect(c.Status().ItemsPerPage).To(Equal(1))
		})
	})

	Context("scenario: two pages of three", func() {
		var c *Controller[int]

		BeforeEach(func() {
			c = builder.
				WithBreakpoints(layout.Hero).
				WithWidth(1024).
				WithItems(ints(6)).
				Build("Hero")
		})

		It("should be armed on page 0", func() {
			s := c.Snapshot()
			Expect(s.State).To(Equal(StateArmed))
			Expect(s.PageCount).To(Equal(2))
			Expect(s.ItemsPerPage).To(Equal(3))
			Expect(s.VisibleItems).To(Equal([]int{0, 1, 2}))
			Expect(s.AutoAdvancePending).To(BeFalse())
			Expect(s.NumItems).To(Equal(6))
			Expect(s.FirstItem).To(Equal(0))
		})

		It("should report the first visible item of the page", func() {
			Expect(c.Next()).To(BeTrue())

			s := c.Snapshot()
			Expect(s.FirstItem).To(Equal(3))
			Expect(s.VisibleItems[0]).To(Equal(s.FirstItem))
		})

		It("should move forward and settle", func() {
			Expect(c.Next()).To(BeTrue())

			s := c.Snapshot()
			Expect(s.State).To(Equal(StateTransitioning))
			Expect(s.Direction).To(Equal(DirectionForward))
			Expect(s.CurrentPage).To(Equal(1))
			Expect(s.VisibleItems).To(Equal([]int{3, 4, 5}))

			Expect(engine.RunFor(300)).To(Succeed())

			s = c.Snapshot()
			Expect(s.State).To(Equal(StateArmed))
			Expect(s.Direction).To(Equal(DirectionNone))
			Expect(s.CurrentPage).To(Equal(1))
		})

		It("should wrap from the last page to the first", func() {
			Expect(c.Next()).To(BeTrue())
			Expect(engine.RunFor(300)).To(Succeed())

			Expect(c.Next()).To(BeTrue())
			Expect(c.Status().Direction).To(Equal(DirectionForward))
			Expect(engine.RunFor(300)).To(Succeed())

			Expect(c.Status().CurrentPage).To(Equal(0))
		})

		It("should advance once for two quick Next calls", func() {
			Expect(c.Next()).To(BeTrue())
			Expect(engine.RunFor(100)).To(Succeed())
			Expect(c.Next()).To(BeFalse())
			Expect(engine.RunFor(200)).To(Succeed())

			Expect(c.Status().CurrentPage).To(Equal(1))
			Expect(recorder.transitions(HookPosSettle)).To(HaveLen(1))

			rejections := recorder.at(HookPosNavigationRejected)
			Expect(rejections).To(HaveLen(1))
			Expect(rejections[0].Item).To(Equal(Rejection{
				Action: ActionNext,
				Reason: "transitioning",
			}))
		})

		It("should return to the original page with Next then Prev", func() {
			Expect(c.Next()).To(BeTrue())
			Expect(engine.RunFor(300)).To(Succeed())
			Expect(c.Prev()).To(BeTrue())
			Expect(c.Status().Direction).To(Equal(DirectionBackward))
			Expect(engine.RunFor(300)).To(Succeed())

			Expect(c.Status().CurrentPage).To(Equal(0))
		})

		It("should report state changes in order", func() {
			Expect(c.Next()).To(BeTrue())
			Expect(engine.RunFor(300)).To(Succeed())

			var states []State
			for _, ctx := range recorder.at(HookPosStateChange) {
				states = append(states, ctx.Item.(Status).State)
			}

			Expect(states).To(Equal([]State{
				StateArmed,
				StateTransitioning,
				StateSettled,
				StateArmed,
			}))
		})

		It("should stamp transitions", func() {
			Expect(c.Next()).To(BeTrue())
			Expect(engine.RunFor(300)).To(Succeed())

			settled := recorder.transitions(HookPosSettle)
			Expect(settled).To(HaveLen(1))
			Expect(settled[0].Where).To(Equal("Hero"))
			Expect(settled[0].Action).To(Equal(ActionNext))
			Expect(settled[0].From).To(Equal(0))
			Expect(settled[0].To).To(Equal(1))
			Expect(settled[0].Start).To(Equal(timing.VTimeInMs(0)))
			Expect(settled[0].End).To(Equal(timing.VTimeInMs(300)))
			Expect(settled[0].ID).NotTo(BeEmpty())
		})
	})

	Context("GoTo", func() {
		var c *Controller[int]

		BeforeEach(func() {
			c = builder.WithItems(ints(5)).Build("Slider")
		})

		It("should ignore the current page", func() {
			Expect(c.GoTo(0)).To(BeFalse())

			s := c.Status()
			Expect(s.State).To(Equal(StateArmed))
			Expect(s.Direction).To(Equal(DirectionNone))
			Expect(engine.Pending()).To(Equal(0))
		})

		It("should clamp past the last page", func() {
			Expect(c.GoTo(99)).To(BeTrue())

			s := c.Status()
			Expect(s.CurrentPage).To(Equal(4))
			Expect(s.Direction).To(Equal(DirectionForward))
		})

		It("should move backward to a smaller page", func() {
			Expect(c.GoTo(3)).To(BeTrue())
			Expect(engine.RunFor(300)).To(Succeed())
			Expect(c.GoTo(-5)).To(BeTrue())

			s := c.Status()
			Expect(s.CurrentPage).To(Equal(0))
			Expect(s.Direction).To(Equal(DirectionBackward))
		})
	})

	Context("without wrapping", func() {
		It("should reject navigation past either end", func() {
			c := builder.WithWrap(false).WithItems(ints(2)).Build("Testimonials")

			Expect(c.Prev()).To(BeFalse())
			Expect(c.Next()).To(BeTrue())
			Expect(engine.RunFor(300)).To(Succeed())
			Expect(c.Next()).To(BeFalse())

			var reasons []string
			for _, ctx := range recorder.at(HookPosNavigationRejected) {
				reasons = append(reasons, ctx.Item.(Rejection).Reason)
			}
			Expect(reasons).To(Equal([]string{"first page", "last page"}))
		})

		It("should still wrap on auto-advance", func() {
			c := builder.
				WithWrap(false).
				WithAutoAdvance(time.Second).
				WithItems(ints(2)).
				Build("Testimonials")

			Expect(engine.RunUntil(1000)).To(Succeed())
			Expect(engine.RunUntil(2300)).To(Succeed())

			Expect(c.Status().CurrentPage).To(Equal(0))
		})
	})

	Context("scenario: breakpoints change", func() {
		var (
			viewportSrc *viewport.Broadcaster
			c           *Controller[int]
		)

		BeforeEach(func() {
			viewportSrc = viewport.NewBroadcaster(1024)
			c = builder.
				WithBreakpoints(layout.ClientGrid).
				WithViewport(viewportSrc).
				WithItems(ints(5)).
				Build("Clients")
		})

		It("should keep a still valid page", func() {
			Expect(c.GoTo(1)).To(BeTrue())
			Expect(engine.RunFor(300)).To(Succeed())

			viewportSrc.Resize(375)

			s := c.Snapshot()
			Expect(s.ItemsPerPage).To(Equal(1))
			Expect(s.PageCount).To(Equal(5))
			Expect(s.CurrentPage).To(Equal(1))
			Expect(s.VisibleItems).To(Equal([]int{1}))
		})

		It("should clamp a page that no longer exists", func() {
			viewportSrc.Resize(375)
			Expect(c.GoTo(4)).To(BeTrue())
			Expect(engine.RunFor(300)).To(Succeed())

			viewportSrc.Resize(1024)

			s := c.Snapshot()
			Expect(s.ItemsPerPage).To(Equal(4))
			Expect(s.PageCount).To(Equal(2))
			Expect(s.CurrentPage).To(Equal(1))
			Expect(s.VisibleItems).To(Equal([]int{4}))

			resizes := recorder.at(HookPosResize)
			Expect(resizes[len(resizes)-1].Detail).To(Equal(ResizeDetail{
				Width:           1024,
				OldItemsPerPage: 1,
				ItemsPerPage:    4,
				OldPageCount:    5,
				PageCount:       2,
				Clamped:         true,
			}))
		})

		It("should let a transition finish across a resize", func() {
			Expect(c.Next()).To(BeTrue())
			viewportSrc.Resize(375)

			s := c.Status()
			Expect(s.State).To(Equal(StateTransitioning))
			Expect(s.ItemsPerPage).To(Equal(1))
			Expect(s.CurrentPage).To(Equal(1))

			Expect(engine.RunFor(300)).To(Succeed())
			Expect(c.Status().State).To(Equal(StateArmed))
		})

		It("should release the subscription on close", func() {
			Expect(viewportSrc.NumListeners()).To(Equal(1))

			c.Close()
			c.Close()

			Expect(viewportSrc.NumListeners()).To(Equal(0))
			Expect(recorder.at(HookPosClose)).To(HaveLen(1))
		})
	})

	Context("when pages collapse", func() {
		It("should abort the transition and go idle", func() {
			src := viewport.NewBroadcaster(500)
			c := builder.
				WithAutoAdvance(3 * time.Second).
				WithBreakpoints(layout.NewTable(
					layout.Breakpoint{MinWidth: 0, Count: 1},
					layout.Breakpoint{MinWidth: 1000, Count: 6},
				)).
				WithViewport(src).
				WithItems(ints(6)).
				Build("Carousel")

			Expect(c.Next()).To(BeTrue())
			src.Resize(1200)

			s := c.Status()
			Expect(s.State).To(Equal(StateIdle))
			Expect(s.Direction).To(Equal(DirectionNone))
			Expect(s.CurrentPage).To(Equal(0))
			Expect(engine.Pending()).To(Equal(0))
			Expect(recorder.transitions(HookPosTransitionAbort)).To(HaveLen(1))
			Expect(recorder.at(HookPosSettle)).To(BeEmpty())

			src.Resize(500)

			s = c.Status()
			Expect(s.State).To(Equal(StateArmed))
			Expect(s.AutoAdvancePending).To(BeTrue())
		})
	})

	Context("scenario: auto-advance", func() {
		var c *Controller[int]

		BeforeEach(func() {
			c = builder.
				WithAutoAdvance(3 * time.Second).
				WithItems(ints(3)).
				Build("Carousel")
		})

		It("should arm the timer at build time", func() {
			s := c.Status()
			Expect(s.State).To(Equal(StateArmed))
			Expect(s.AutoAdvancePending).To(BeTrue())
			Expect(s.NextAdvance).To(Equal(timing.VTimeInMs(3000)))
		})

		It("should measure the interval from settle to settle", func() {
			Expect(engine.RunUntil(2999)).To(Succeed())
			Expect(c.Status().CurrentPage).To(Equal(0))

			Expect(engine.RunUntil(3000)).To(Succeed())
			s := c.Status()
			Expect(s.State).To(Equal(StateTransitioning))
			Expect(s.CurrentPage).To(Equal(1))
			Expect(s.AutoAdvancePending).To(BeFalse())

			Expect(engine.RunUntil(6299)).To(Succeed())
			Expect(c.Status().CurrentPage).To(Equal(1))

			Expect(engine.RunUntil(6300)).To(Succeed())
			Expect(c.Status().CurrentPage).To(Equal(2))

			Expect(engine.RunUntil(9900)).To(Succeed())
			Expect(c.Status().CurrentPage).To(Equal(0))

			settled := recorder.transitions(HookPosSettle)
			Expect(settled).To(HaveLen(3))
			for i := 1; i < len(settled); i++ {
				Expect(settled[i].Start - settled[i-1].End).
					To(BeNumerically(">=", 3000))
				Expect(settled[i].Action).To(Equal(ActionAuto))
			}
		})

		It("should restart the interval after manual navigation", func() {
			Expect(engine.RunUntil(1000)).To(Succeed())
			Expect(c.Next()).To(BeTrue())
			Expect(c.Status().AutoAdvancePending).To(BeFalse())

			Expect(engine.RunUntil(1300)).To(Succeed())
			Expect(c.Status().NextAdvance).To(Equal(timing.VTimeInMs(4300)))

			Expect(engine.RunUntil(4299)).To(Succeed())
			Expect(c.Status().CurrentPage).To(Equal(1))
			Expect(engine.RunUntil(4300)).To(Succeed())
			Expect(c.Status().CurrentPage).To(Equal(2))
		})

		It("should never double advance", func() {
			Expect(engine.RunUntil(30000)).To(Succeed())

			for _, tr := range recorder.transitions(HookPosTransitionStart) {
				Expect(tr.To).To(Equal((tr.From + 1) % 3))
			}
		})

		It("should release every timer on close", func() {
			Expect(engine.RunUntil(3000)).To(Succeed())
			Expect(engine.Pending()).To(Equal(1))

			c.Close()

			Expect(engine.Pending()).To(Equal(0))
			Expect(c.Closed()).To(BeTrue())
			Expect(c.Status().State).To(Equal(StateIdle))
			Expect(recorder.transitions(HookPosTransitionAbort)).To(HaveLen(1))

			Expect(c.Next()).To(BeFalse())
			c.Resize(375)
			c.SetItems(ints(9))
			Expect(engine.Pending()).To(Equal(0))
			Expect(c.Items()).To(Equal(ints(3)))
		})

		It("should start over when the items change", func() {
			Expect(engine.RunUntil(3100)).To(Succeed())
			c.SetItems(ints(4))

			s := c.Status()
			Expect(s.State).To(Equal(StateArmed))
			Expect(s.CurrentPage).To(Equal(0))
			Expect(s.NumItems).To(Equal(4))
			Expect(s.NextAdvance).To(Equal(timing.VTimeInMs(6100)))
			Expect(recorder.at(HookPosItemsChange)).To(HaveLen(1))
			Expect(recorder.transitions(HookPosTransitionAbort)).To(HaveLen(1))
		})
	})

	Context("with the expiry cadence", func() {
		It("should measure the interval from expiry to expiry", func() {
			c := builder.
				WithAutoAdvance(3 * time.Second).
				WithCadence(CadenceExpiryToExpiry).
				WithItems(ints(3)).
				Build("Carousel")

			Expect(engine.RunUntil(3000)).To(Succeed())
			Expect(c.Status().NextAdvance).To(Equal(timing.VTimeInMs(6000)))

			Expect(engine.RunUntil(6000)).To(Succeed())

			starts := recorder.transitions(HookPosTransitionStart)
			Expect(starts).To(HaveLen(2))
			Expect(starts[0].Start).To(Equal(timing.VTimeInMs(3000)))
			Expect(starts[1].Start).To(Equal(timing.VTimeInMs(6000)))
		})

		It("should keep the beat when the interval equals the settle delay", func() {
			builder.
				WithAutoAdvance(300 * time.Millisecond).
				WithCadence(CadenceExpiryToExpiry).
				WithItems(ints(3)).
				Build("Carousel")

			Expect(engine.RunUntil(1500)).To(Succeed())

			var startTimes []timing.VTimeInMs
			for _, tr := range recorder.transitions(HookPosTransitionStart) {
				startTimes = append(startTimes, tr.Start)
			}

			Expect(startTimes).To(Equal([]timing.VTimeInMs{300, 600, 900, 1200, 1500}))
			Expect(recorder.transitions(HookPosSettle)).To(HaveLen(4))
			Expect(recorder.at(HookPosTransitionAbort)).To(BeEmpty())
		})
	})

	Context("with an immediate settle", func() {
		It("should settle inside the navigation call", func() {
			c := builder.WithSettleDelay(0).WithItems(ints(3)).Build("Carousel")

			Expect(c.Next()).To(BeTrue())

			s := c.Status()
			Expect(s.State).To(Equal(StateArmed))
			Expect(s.CurrentPage).To(Equal(1))
			Expect(recorder.at(HookPosSettle)).To(HaveLen(1))
		})
	})

	Context("with a mocked viewport", func() {
		var mockCtrl *gomock.Controller

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should subscribe once and unsubscribe once", func() {
			src := NewMockSource(mockCtrl)
			sub := NewMockSubscription(mockCtrl)

			src.EXPECT().Width().Return(1024)
			src.EXPECT().Subscribe(gomock.Any()).Return(sub)
			sub.EXPECT().Unsubscribe().Times(1)

			c := builder.
				WithBreakpoints(layout.Hero).
				WithViewport(src).
				WithItems(ints(9)).
				Build("Hero")

			Expect(c.Status().ItemsPerPage).To(Equal(3))

			c.Close()
			c.Close()
		})
	})
})
