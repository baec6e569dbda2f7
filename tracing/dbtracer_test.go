package tracing

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/carousel/timing"
)

var _ = Describe("DBTracer", func() {
	var (
		mockCtrl *gomock.Controller
		writer   *MockTraceWriter
		tracer   *DBTracer
	)

	task := func(id string, start, end uint64) Task {
		return Task{
			ID:        id,
			Kind:      KindTransition,
			What:      "next",
			Where:     "Carousel",
			StartTime: timing.VTimeInMs(start),
			EndTime:   timing.VTimeInMs(end),
		}
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		writer = NewMockTraceWriter(mockCtrl)
		writer.EXPECT().Init().Return(nil)

		var err error
		tracer, err = NewDBTracer(writer)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should fail when the writer cannot initialize", func() {
		failing := NewMockTraceWriter(mockCtrl)
		failing.EXPECT().Init().Return(errors.New("disk full"))

		_, err := NewDBTracer(failing)
		Expect(err).To(MatchError("disk full"))
	})

	It("should panic on an incomplete task", func() {
		Expect(func() { tracer.StartTask(Task{ID: "1"}) }).To(Panic())
	})

	It("should write finished tasks with their steps", func() {
		writer.EXPECT().Write(gomock.Any()).Do(func(t Task) {
			Expect(t.ID).To(Equal("1"))
			Expect(t.EndTime).To(Equal(timing.VTimeInMs(300)))
			Expect(t.Steps).To(HaveLen(2))
		})

		tracer.StartTask(task("1", 0, 0))
		tracer.StepTask(withStep(task("1", 0, 0), 0, StepAccepted))
		tracer.StepTask(withStep(task("1", 0, 300), 300, StepSettled))
		tracer.EndTask(task("1", 0, 300))
	})

	It("should ignore tasks outside the time range", func() {
		tracer.SetTimeRange(1000, 2000)

		tracer.StartTask(task("early", 0, 0))
		tracer.EndTask(task("early", 0, 300))
		tracer.StartTask(task("late", 2500, 0))
		tracer.EndTask(task("late", 2500, 2800))

		writer.EXPECT().Write(gomock.Any())
		tracer.StartTask(task("inside", 900, 0))
		tracer.EndTask(task("inside", 900, 1200))
	})

	It("should keep the first write error", func() {
		writer.EXPECT().Write(gomock.Any()).Return(errors.New("broken"))
		writer.EXPECT().Write(gomock.Any()).Return(errors.New("ignored"))

		for _, id := range []string{"1", "2"} {
			tracer.StartTask(task(id, 0, 0))
			tracer.EndTask(task(id, 0, 300))
		}

		Expect(tracer.Err()).To(MatchError("broken"))
	})

	It("should close the writer once", func() {
		writer.EXPECT().Close().Return(nil).Times(1)

		tracer.StartTask(task("unfinished", 0, 0))

		Expect(tracer.Terminate()).To(Succeed())
		Expect(tracer.Terminate()).To(Succeed())

		tracer.EndTask(task("unfinished", 0, 300))
	})
})
