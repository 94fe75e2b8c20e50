package job

import "fmt"

const (
	MessageAllTasksCancelled = "All tasks cancelled, contact manager to cancel job."
	MessageNoCompletedTask   = "At least one active task must be completed."
	MessageReadyToComplete   = "Job can be completed."
)

// ValidateCompletion reports the first failing rule: all cancelled, nothing completed,
// incomplete active tasks, then photos and sessions of completed tasks.
func ValidateCompletion(tasks []Task) CompletionValidation {
	active := ActiveTasks(tasks)
	if len(active) == 0 {
		return CompletionValidation{Message: MessageAllTasksCancelled}
	}

	var completed []Task
	incomplete := 0
	for _, t := range active {
		if t.Status == TaskCompleted {
			completed = append(completed, t)
		} else {
			incomplete++
		}
	}
	if len(completed) == 0 {
		return CompletionValidation{Message: MessageNoCompletedTask}
	}
	if incomplete > 0 {
		return CompletionValidation{Message: fmt.Sprintf("%d active task(s) still need completion.", incomplete)}
	}

	missing := 0
	for _, t := range completed {
		if !hasCompletionEvidence(t) {
			missing++
		}
	}
	if missing > 0 {
		return CompletionValidation{Message: fmt.Sprintf("%d completed task(s) missing required photos or sessions.", missing)}
	}

	return CompletionValidation{IsValid: true, Message: MessageReadyToComplete}
}

func hasCompletionEvidence(t Task) bool {
	before, after, closedSession := false, false, false
	for _, p := range t.Photos {
		switch p.Category {
		case PhotoBefore:
			before = true
		case PhotoAfter:
			after = true
		case PhotoDuring:
		default:
		}
	}
	for _, s := range t.Sessions {
		if !s.IsActive {
			closedSession = true
			break
		}
	}
	return before && after && closedSession
}
