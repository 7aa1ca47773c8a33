package engine

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/mock"

	"github.com/imamik/sagerec/internal/errkind"
	"github.com/imamik/sagerec/internal/resource"
	testutil "github.com/imamik/sagerec/internal/testing"
)

var _ = Describe("Reconciliation", func() {
	var (
		ctx   context.Context
		clock *testutil.Clock
	)

	BeforeEach(func() {
		ctx = context.Background()
		clock = testutil.NewClock(testutil.Epoch)
	})

	// drive resubmits in-progress results until the operation finishes.
	drive := func(e *Engine[*widget], req Request[*widget]) []Result[*widget] {
		var results []Result[*widget]
		for i := 0; i < 50; i++ {
			res := e.Handle(ctx, req)
			results = append(results, res)
			if res.Done() {
				return results
			}
			clock.Advance(res.Delay)
			req.Desired, req.Progress = res.Model, res.Progress
		}
		Fail("operation did not finish")
		return results
	}

	Context("when a create goes through pending states", func() {
		It("reports progress twice and then succeeds", func() {
			p := newFakeProvider("Pending", "Pending", "Created")
			e, sink := newWidgetEngine(p, nil, clock)

			results := drive(e, Request[*widget]{Operation: resource.OperationCreate, Desired: desiredWidget("w1")})

			Expect(results).To(HaveLen(3))
			for _, res := range results[:2] {
				Expect(res.Status).To(Equal(StatusInProgress))
				Expect(res.DelaySeconds()).To(Equal(120))
			}
			Expect(results[2].Status).To(Equal(StatusSuccess))
			Expect(*results[2].Model.ARN).To(Equal("arn:test:widget/w1"))
			Expect(p.createCalls).To(Equal(1))
			Expect(sink.Types()).To(ContainElement(EventResourceStabilizing))
		})
	})

	Context("when a create ends in a failure status", func() {
		It("fails with NotStabilized naming the resource", func() {
			p := newFakeProvider("Pending", "CreateFailed")
			e, _ := newWidgetEngine(p, nil, clock)

			results := drive(e, Request[*widget]{Operation: resource.OperationCreate, Desired: desiredWidget("w1")})

			last := results[len(results)-1]
			Expect(last.Status).To(Equal(StatusFailed))
			Expect(last.Kind).To(Equal(errkind.NotStabilized))
			Expect(last.Message()).To(ContainSubstring("w1"))
			Expect(last.Message()).To(ContainSubstring("did not stabilize"))
		})
	})

	Context("when deleting a resource that is already gone", func() {
		It("succeeds without issuing a delete or polling", func() {
			p := newFakeProvider(testutil.ErrNotFound)
			e, sink := newWidgetEngine(p, nil, clock)

			results := drive(e, Request[*widget]{Operation: resource.OperationDelete, Desired: desiredWidget("w1")})

			Expect(results).To(HaveLen(1))
			Expect(results[0].Status).To(Equal(StatusSuccess))
			Expect(p.deleteCalls).To(BeZero())
			Expect(p.describeCalls).To(Equal(1))
			Expect(sink.Types()).NotTo(ContainElement(EventResourceStabilizing))
		})
	})

	Context("when updating tags", func() {
		It("adds only the missing tag", func() {
			p := newFakeProvider("Created", "Updated")
			tagAPI := &testutil.MockTagAPI{}
			tagAPI.On("ListTags", mock.Anything, "arn:test:widget/w1").Return(map[string]string{"a": "1"}, nil)
			tagAPI.On("AddTags", mock.Anything, "arn:test:widget/w1", map[string]string{"b": "2"}).Return(nil).Once()
			e, sink := newWidgetEngine(p, tagAPI, clock)

			desired := desiredWidget("w1")
			desired.Tags = []resource.Tag{resource.NewTag("a", "1"), resource.NewTag("b", "2")}
			results := drive(e, Request[*widget]{Operation: resource.OperationUpdate, Desired: desired})

			Expect(results[len(results)-1].Status).To(Equal(StatusSuccess))
			tagAPI.AssertNumberOfCalls(GinkgoT(), "AddTags", 1)
			tagAPI.AssertNumberOfCalls(GinkgoT(), "RemoveTags", 0)
			Expect(sink.Types()).To(ContainElement(EventTagsReconciled))
		})
	})

	Context("when the provider throttles", func() {
		It("returns in progress instead of failing", func() {
			p := newFakeProvider(testutil.ErrThrottling)
			e, sink := newWidgetEngine(p, nil, clock)

			res := e.Handle(ctx, Request[*widget]{Operation: resource.OperationRead, Desired: desiredWidget("w1")})

			Expect(res.Status).To(Equal(StatusInProgress))
			Expect(res.Kind).To(Equal(errkind.Throttling))
			Expect(res.Delay).To(BeNumerically(">", time.Duration(0)))
			Expect(sink.Types()).To(ContainElement(EventThrottled))
		})

		It("keeps polling when a stabilization probe is throttled", func() {
			p := newFakeProvider("Pending", testutil.ErrThrottling, "Created")
			e, _ := newWidgetEngine(p, nil, clock)

			results := drive(e, Request[*widget]{Operation: resource.OperationCreate, Desired: desiredWidget("w1")})

			Expect(results).To(HaveLen(3))
			Expect(results[1].Kind).To(Equal(errkind.Throttling))
			Expect(results[2].Status).To(Equal(StatusSuccess))
		})
	})
})
