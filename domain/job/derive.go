package job

// ActiveTasks drops cancelled tasks.
func ActiveTasks(tasks []Task) []Task {
	active := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status != TaskCancelled {
			active = append(active, t)
		}
	}
	return active
}

// DeriveJobStatus computes the job status from its tasks and its current status.
// Automatic transitions never go beyond In Progress.
func DeriveJobStatus(tasks []Task, current JobStatus) JobStatus {
	active := ActiveTasks(tasks)
	if len(active) == 0 {
		return JobCreated
	}

	switch current {
	case JobSubmitted, JobApproved, JobRejected:
		return current
	case JobCompleted:
		return JobCompleted
	case JobInProgress:
		// a started job is not sent back to Created while it still has active tasks
		return JobInProgress
	case JobCreated:
		for _, t := range active {
			if t.Status == TaskInProgress || t.Status == TaskCompleted {
				return JobInProgress
			}
		}
		return JobCreated
	default:
		return current
	}
}
