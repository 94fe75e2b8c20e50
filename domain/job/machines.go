package job

import "fieldjobs/domain/state"

var (
	taskPending    = state.State{Name: string(TaskPending), Category: state.InBacklog}
	taskInProgress = state.State{Name: string(TaskInProgress), Category: state.InProcess}
	taskCompleted  = state.State{Name: string(TaskCompleted), Category: state.Done}
	taskCancelled  = state.State{Name: string(TaskCancelled), Category: state.Abandoned}

	// TaskStateMachine: completed and cancelled are terminal.
	TaskStateMachine = state.NewStateMachine(
		[]state.State{taskPending, taskInProgress, taskCompleted, taskCancelled},
		[]state.Transition{
			{Name: "start", From: taskPending, To: taskInProgress},
			{Name: "close", From: taskPending, To: taskCompleted},
			{Name: "cancel", From: taskPending, To: taskCancelled},
			{Name: "finish", From: taskInProgress, To: taskCompleted},
			{Name: "cancel", From: taskInProgress, To: taskCancelled},
		})

	jobCreated    = state.State{Name: string(JobCreated), Category: state.InBacklog}
	jobInProgress = state.State{Name: string(JobInProgress), Category: state.InProcess}
	jobCompleted  = state.State{Name: string(JobCompleted), Category: state.InProcess}
	jobSubmitted  = state.State{Name: string(JobSubmitted), Category: state.InProcess}
	jobApproved   = state.State{Name: string(JobApproved), Category: state.Done}
	jobRejected   = state.State{Name: string(JobRejected), Category: state.Abandoned}

	// JobStateMachine holds the explicitly commanded transitions. Transitions derived from
	// task statuses are computed by DeriveJobStatus.
	JobStateMachine = state.NewStateMachine(
		[]state.State{jobCreated, jobInProgress, jobCompleted, jobSubmitted, jobApproved, jobRejected},
		[]state.Transition{
			{Name: "start", From: jobCreated, To: jobInProgress},
			{Name: "complete", From: jobInProgress, To: jobCompleted},
			{Name: "submit", From: jobCompleted, To: jobSubmitted},
			{Name: "approve", From: jobSubmitted, To: jobApproved},
			{Name: "reject", From: jobSubmitted, To: jobInProgress},
		})
)

func canTransitTask(from, to TaskStatus) bool {
	return TaskStateMachine.CanTransit(string(from), string(to))
}

func canTransitJob(from, to JobStatus) bool {
	return JobStateMachine.CanTransit(string(from), string(to))
}
