package scenario

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/carousel/config"
	"github.com/sarchlab/carousel/rotation"
	"github.com/sarchlab/carousel/timing"
)

func framesAt(frames []Frame, event string) []Frame {
	var out []Frame

	for _, f := range frames {
		if f.Event == event {
			out = append(out, f)
		}
	}

	return out
}

func times(frames []Frame) []timing.VTimeInMs {
	out := make([]timing.VTimeInMs, 0, len(frames))
	for _, f := range frames {
		out = append(out, f.Time)
	}

	return out
}

func mustRun(doc string) []Frame {
	s, err := Parse([]byte(doc))
	Expect(err).NotTo(HaveOccurred())

	frames, err := NewRunner(s).Run()
	Expect(err).NotTo(HaveOccurred())

	return frames
}

var _ = Describe("Parse", func() {
	It("should reject unknown actions", func() {
		_, err := Parse([]byte(`
items: [a, b]
steps:
  - {at: 1s, action: jump}
`))

		Expect(err).To(MatchError(ErrUnknownAction))
		Expect(err.Error()).To(ContainSubstring("step 0"))
	})

	It("should reject unknown variants", func() {
		_, err := Parse([]byte(`
config: {variant: spinner}
items: [a, b]
`))

		Expect(err).To(MatchError(config.ErrUnknownVariant))
	})

	It("should reject bad step times", func() {
		_, err := Parse([]byte(`
items: [a, b]
steps:
  - {at: soon, action: next}
`))

		Expect(err).To(MatchError(ContainSubstring("invalid at")))
	})

	It("should require an end time when auto-advance is on", func() {
		_, err := Parse([]byte(`
config: {auto_advance: 3s}
items: [a, b]
`))

		Expect(err).To(MatchError(ContainSubstring("until is required")))
	})

	It("should resolve the variant preset", func() {
		s, err := Parse([]byte(`
config: {variant: client-slider, settle_delay: 250ms}
items: [a, b]
until: 1s
`))

		Expect(err).NotTo(HaveOccurred())
		Expect(s.RotationConfig().AutoAdvance.Seconds()).To(Equal(4.0))
		Expect(s.RotationConfig().SettleDelay.Milliseconds()).To(Equal(int64(250)))
	})

	It("should load from a file", func() {
		path := filepath.Join(GinkgoT().TempDir(), "s.yaml")
		Expect(os.WriteFile(path, []byte("name: Files\nitems: [a]\n"), 0o644)).
			To(Succeed())

		s, err := Load(path)

		Expect(err).NotTo(HaveOccurred())
		Expect(s.Name).To(Equal("Files"))
	})

	It("should name the file on errors", func() {
		path := filepath.Join(GinkgoT().TempDir(), "bad.yaml")
		Expect(os.WriteFile(path, []byte("items: [a]\nuntil: later\n"), 0o644)).
			To(Succeed())

		_, err := Load(path)

		Expect(err).To(MatchError(ContainSubstring("bad.yaml")))
	})
})

var _ = Describe("Runner", func() {
	It("should advance settle to settle", func() {
		frames := mustRun(`
config: {auto_advance: 3s, settle_delay: 300ms}
width: 1024
items: [a, b, c]
until: 10s
`)

		starts := framesAt(frames, "TransitionStart")
		Expect(times(starts)).To(Equal([]timing.VTimeInMs{3000, 6300, 9600}))
		Expect(times(framesAt(frames, "Settle"))).
			To(Equal([]timing.VTimeInMs{3300, 6600, 9900}))
		Expect(starts[2].Visible).To(Equal([]string{"a"}))
		Expect(starts[2].Transition.From).To(Equal(2))
		Expect(starts[2].Transition.To).To(Equal(0))
	})

	It("should restart the interval after manual navigation", func() {
		frames := mustRun(`
config: {auto_advance: 3s, settle_delay: 300ms}
items: [a, b, c]
steps:
  - {at: 1s, action: next}
until: 5s
`)

		starts := framesAt(frames, "TransitionStart")
		Expect(times(starts)).To(Equal([]timing.VTimeInMs{1000, 4300}))
		Expect(starts[0].Transition.Action).To(Equal(rotation.ActionNext))
		Expect(starts[1].Transition.Action).To(Equal(rotation.ActionAuto))
	})

	It("should record rejected navigation", func() {
		frames := mustRun(`
config: {variant: hero}
width: 1024
items: [a, b, c, d, e, f]
steps:
  - {at: 1s, action: next}
  - {at: 1s, action: next}
`)

		rejected := framesAt(frames, "NavigationRejected")
		Expect(rejected).To(HaveLen(1))
		Expect(rejected[0].Rejection.Reason).To(Equal("transitioning"))
		Expect(rejected[0].String()).To(ContainSubstring("rejected: transitioning"))
		Expect(frames[len(frames)-1].Time).To(Equal(timing.VTimeInMs(1700)))
		Expect(frames[len(frames)-1].Status.State).To(Equal(rotation.StateArmed))
		Expect(frames[len(frames)-1].Visible).To(Equal([]string{"d", "e", "f"}))
	})

	It("should push resizes through the viewport", func() {
		frames := mustRun(`
config: {variant: client-slider}
width: 1280
items: [a, b, c, d, e, f, g, h]
steps:
  - {at: 1s, action: resize, arg: 375}
until: 2s
`)

		resizes := framesAt(frames, "Resize")
		Expect(resizes).To(HaveLen(1))
		Expect(resizes[0].Status.ItemsPerPage).To(Equal(1))
		Expect(resizes[0].Status.PageCount).To(Equal(8))
		Expect(resizes[0].Visible).To(Equal([]string{"a"}))
	})

	It("should replace items and go to the first page", func() {
		frames := mustRun(`
items: [a, b, c]
steps:
  - {at: 1s, action: goto, arg: 2}
  - {at: 2s, action: items, items: [x, y]}
`)

		changes := framesAt(frames, "ItemsChange")
		Expect(changes).To(HaveLen(1))
		Expect(changes[0].Status.CurrentPage).To(Equal(0))
		Expect(changes[0].Visible).To(Equal([]string{"x"}))
	})

	It("should stop recording after close", func() {
		s, err := Parse([]byte(`
config: {auto_advance: 1s, settle_delay: 100ms}
items: [a, b, c]
steps:
  - {at: 2500ms, action: close}
until: 10s
`))
		Expect(err).NotTo(HaveOccurred())

		r := NewRunner(s)
		frames, err := r.Run()

		Expect(err).NotTo(HaveOccurred())
		Expect(frames[len(frames)-1].Event).To(Equal("Close"))
		Expect(frames[len(frames)-1].Time).To(Equal(timing.VTimeInMs(2500)))
		Expect(r.Controller().Closed()).To(BeTrue())
		Expect(r.Engine().Pending()).To(Equal(0))
	})

	It("should show an empty page in frames", func() {
		f := Frame{Event: "StateChange"}

		Expect(f.String()).To(ContainSubstring("page -"))
	})
})
