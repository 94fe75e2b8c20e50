package job

import (
	"fieldjobs/common"
	"fieldjobs/notification"
	"fmt"

	"github.com/fundwit/go-commons/types"
)

// audience lists recipients in order, creator first when asked for, without duplicates
// and without the excluded user.
func audience(j *Job, withCreator bool, exclude types.ID) []types.ID {
	seen := map[types.ID]bool{exclude: true}
	var ids []types.ID
	add := func(id types.ID) {
		if id == 0 || seen[id] {
			return
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if withCreator {
		add(j.CreatorID)
	}
	for _, id := range j.AssignedTechs {
		add(id)
	}
	return ids
}

func buildNotifications(recipients []types.ID, typ notification.Type, jobId types.ID, title, message string,
	now types.Timestamp) []notification.Notification {

	ns := make([]notification.Notification, 0, len(recipients))
	for _, uid := range recipients {
		ns = append(ns, notification.Notification{
			ID:        common.NextId(idWorker),
			UserID:    uid,
			Title:     title,
			Message:   message,
			Type:      typ,
			JobID:     jobId,
			Timestamp: now,
		})
	}
	return ns
}

func jobAssignedNotifications(j *Job, now types.Timestamp) []notification.Notification {
	return buildNotifications(audience(j, false, 0), notification.TypeJobAssigned, j.ID, "New job assigned",
		fmt.Sprintf("You have been assigned to job \"%s\" at %s.", j.Title, j.SiteLocation), now)
}

func jobStartedNotifications(j *Job, actorName string, now types.Timestamp) []notification.Notification {
	return buildNotifications([]types.ID{j.CreatorID}, notification.TypeJobStarted, j.ID, "Job started",
		fmt.Sprintf("%s started job \"%s\".", actorName, j.Title), now)
}

func taskAddedNotifications(j *Job, t *Task, actorId types.ID, actorName string, now types.Timestamp) []notification.Notification {
	return buildNotifications(audience(j, true, actorId), notification.TypeTaskAdded, j.ID, "Task added",
		fmt.Sprintf("%s added task \"%s\" to job \"%s\".", actorName, t.Description, j.Title), now)
}

func taskCancelledNotifications(j *Job, t *Task, actorId types.ID, actorName string, now types.Timestamp) []notification.Notification {
	return buildNotifications(audience(j, true, actorId), notification.TypeTaskCancelled, j.ID, "Task cancelled",
		fmt.Sprintf("%s cancelled task \"%s\" in job \"%s\": %s", actorName, t.Description, j.Title, t.Activity.CancelReason), now)
}

func jobSubmittedNotifications(j *Job, actorName string, now types.Timestamp) []notification.Notification {
	return buildNotifications([]types.ID{j.CreatorID}, notification.TypeJobSubmitted, j.ID, "Job submitted",
		fmt.Sprintf("%s submitted job \"%s\" for approval.", actorName, j.Title), now)
}

func jobApprovedNotifications(j *Job, now types.Timestamp) []notification.Notification {
	return buildNotifications(audience(j, false, 0), notification.TypeJobApproved, j.ID, "Job approved",
		fmt.Sprintf("Job \"%s\" was approved.", j.Title), now)
}

func jobRejectedNotifications(j *Job, now types.Timestamp) []notification.Notification {
	return buildNotifications(audience(j, false, 0), notification.TypeJobRejected, j.ID, "Job rejected",
		fmt.Sprintf("Job \"%s\" was rejected: %s", j.Title, j.RejectionReason), now)
}

func jobCancelledNotifications(j *Job, now types.Timestamp) []notification.Notification {
	return buildNotifications(audience(j, false, 0), notification.TypeJobCancelled, j.ID, "Job cancelled",
		fmt.Sprintf("Job \"%s\" was cancelled.", j.Title), now)
}
