package state_test

import (
	"fieldjobs/domain/state"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("StateMachine", func() {
	var (
		stateMachine *state.StateMachine
		pending      = state.State{Name: "pending", Category: state.InBacklog}
		inProgress   = state.State{Name: "in_progress", Category: state.InProcess}
		completed    = state.State{Name: "completed", Category: state.Done}
		cancelled    = state.State{Name: "cancelled", Category: state.Abandoned}
	)

	BeforeEach(func() {
		//              pending   in_progress   completed    cancelled
		// pending        -       V (start)     V (close)    V (cancel)
		// in_progress    X       -             V (finish)   V (cancel)
		// completed      X       X             -            X
		// cancelled      X       X             X            -
		stateMachine = state.NewStateMachine(
			[]state.State{pending, inProgress, completed, cancelled},
			[]state.Transition{
				{Name: "start", From: pending, To: inProgress},
				{Name: "close", From: pending, To: completed},
				{Name: "cancel", From: pending, To: cancelled},
				{Name: "finish", From: inProgress, To: completed},
				{Name: "cancel", From: inProgress, To: cancelled},
			})
	})

	Describe("NewStateMachine", func() {
		It("should keep states and transitions as given", func() {
			Expect(stateMachine).NotTo(BeZero())
			Expect(stateMachine.States).Should(Equal([]state.State{pending, inProgress, completed, cancelled}))
			Expect(len(stateMachine.Transitions)).Should(Equal(5))
		})
	})

	Describe("AvailableTransitions", func() {
		It("should filter by from state", func() {
			Ω(stateMachine.AvailableTransitions("pending", "")).Should(Equal([]state.Transition{
				{Name: "start", From: pending, To: inProgress},
				{Name: "close", From: pending, To: completed},
				{Name: "cancel", From: pending, To: cancelled},
			}))
			Ω(stateMachine.AvailableTransitions("in_progress", "")).Should(Equal([]state.Transition{
				{Name: "finish", From: inProgress, To: completed},
				{Name: "cancel", From: inProgress, To: cancelled},
			}))
			Ω(len(stateMachine.AvailableTransitions("completed", ""))).Should(Equal(0))
			Ω(len(stateMachine.AvailableTransitions("UNKNOWN", ""))).Should(Equal(0))
		})

		It("should filter by to state", func() {
			Ω(stateMachine.AvailableTransitions("", "cancelled")).Should(Equal([]state.Transition{
				{Name: "cancel", From: pending, To: cancelled},
				{Name: "cancel", From: inProgress, To: cancelled},
			}))
			Ω(stateMachine.AvailableTransitions("pending", "completed")).Should(Equal([]state.Transition{
				{Name: "close", From: pending, To: completed},
			}))
		})
	})

	Describe("CanTransit", func() {
		It("should answer by transitions table", func() {
			Expect(stateMachine.CanTransit("pending", "in_progress")).To(BeTrue())
			Expect(stateMachine.CanTransit("in_progress", "pending")).To(BeFalse())
			Expect(stateMachine.CanTransit("completed", "cancelled")).To(BeFalse())
			Expect(stateMachine.CanTransit("", "cancelled")).To(BeFalse())
		})
	})

	Describe("FindState and IsTerminal", func() {
		It("should find declared states only", func() {
			s, found := stateMachine.FindState("completed")
			Expect(found).To(BeTrue())
			Expect(s).To(Equal(completed))

			_, found = stateMachine.FindState("UNKNOWN")
			Expect(found).To(BeFalse())
		})

		It("should treat states without outgoing transitions as terminal", func() {
			Expect(stateMachine.IsTerminal("completed")).To(BeTrue())
			Expect(stateMachine.IsTerminal("cancelled")).To(BeTrue())
			Expect(stateMachine.IsTerminal("pending")).To(BeFalse())
		})
	})
})
