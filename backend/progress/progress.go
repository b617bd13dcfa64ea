// Package progress computes completion statistics for a user against a
// course's nested module/lesson content. All functions are pure: they
// operate on already-fetched documents and never touch the store.
package progress

import "academy/backend/models"

// ModuleProgress is the completion count for one module, in authoring
// order.
type ModuleProgress struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// Complete reports whether every lesson of the module is completed.
// A module with zero lessons is never complete.
func (m ModuleProgress) Complete() bool {
	return m.Total > 0 && m.Completed == m.Total
}

// CourseProgress is the aggregated completion state of one user for one
// course.
type CourseProgress struct {
	TotalLessons     int              `json:"totalLessons"`
	CompletedLessons int              `json:"completedLessons"`
	Modules          []ModuleProgress `json:"modules"`
	// CourseMarkedComplete is the explicit "Mark Course Complete" flag
	// stored on the course document. It is a separate durable fact and
	// is never re-derived from lesson state; lessons added after the
	// mark can leave it out of sync with CompletedLessons.
	CourseMarkedComplete bool `json:"courseMarkedComplete"`
}

// AllLessonsCompleted reports whether the "Mark Course Complete" action
// may be offered: every lesson done, and at least one lesson exists.
func (p CourseProgress) AllLessonsCompleted() bool {
	return p.TotalLessons > 0 && p.CompletedLessons == p.TotalLessons
}

// completedBy is semantically a set, but the storage layer does not
// forbid duplicates, so membership is the test, never entry count.
func isMember(completedBy []string, userID string) bool {
	if userID == "" {
		return false
	}
	for _, id := range completedBy {
		if id == userID {
			return true
		}
	}
	return false
}

// Aggregate walks the course's modules and lessons in array order and
// derives per-module and overall completion counts for userID. An empty
// userID is an anonymous caller: every derived value is zero/false.
// Absent nested fields count as empty, never as an error.
func Aggregate(course *models.Course, userID string) CourseProgress {
	var p CourseProgress
	if course == nil {
		return p
	}

	for _, m := range course.Modules {
		mp := ModuleProgress{Total: len(m.Lessons)}
		for _, l := range m.Lessons {
			if isMember(l.CompletedBy, userID) {
				mp.Completed++
			}
		}
		p.TotalLessons += mp.Total
		p.CompletedLessons += mp.Completed
		p.Modules = append(p.Modules, mp)
	}

	p.CourseMarkedComplete = isMember(course.CompletedBy, userID)
	return p
}
