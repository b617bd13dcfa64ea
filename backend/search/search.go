// Package search ranks catalog courses against a free-text query. It
// runs in-process over courses already fetched from the content store;
// the tutor agent exposes it to the model as the searchCourses tool.
package search

import (
	"fmt"
	"sort"
	"strings"

	"academy/backend/models"
)

// Per-term score weights. Kept as-is for behavioral parity with the
// established ranking; do not tune without re-checking result order.
const (
	weightTitle       = 100
	weightDescription = 50
	weightCategory    = 30
	weightModuleTitle = 20
	weightModuleDesc  = 10
	weightLessonTitle = 15
	weightLessonDesc  = 8
	weightLessonBody  = 5
)

const (
	maxResults        = 10
	contentPreviewLen = 2000
)

// LessonResult is the tool-facing view of one matching lesson,
// including a content preview large enough for the model to answer
// questions from.
type LessonResult struct {
	Title          string  `json:"title"`
	Slug           *string `json:"slug"`
	Description    *string `json:"description"`
	ContentPreview *string `json:"contentPreview"`
	LessonURL      *string `json:"lessonUrl"`
}

type ModuleResult struct {
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	Lessons     []LessonResult `json:"lessons"`
}

type CourseResult struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Slug        string         `json:"slug"`
	Description *string        `json:"description"`
	Tier        models.Tier    `json:"tier"`
	Category    *string        `json:"category"`
	URL         string         `json:"url"`
	ModuleCount int            `json:"moduleCount"`
	LessonCount int            `json:"lessonCount"`
	Modules     []ModuleResult `json:"modules"`
}

type Result struct {
	Found   bool           `json:"found"`
	Message string         `json:"message"`
	Courses []CourseResult `json:"courses"`
}

func textContains(text, term string) bool {
	if text == "" {
		return false
	}
	return strings.Contains(strings.ToLower(text), term)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Score rates how well a course matches the search terms. Terms are
// expected lowercased.
func Score(course *models.Course, terms []string) int {
	score := 0
	category := ""
	if course.Category != nil {
		category = course.Category.Title
	}

	for _, term := range terms {
		if textContains(course.Title, term) {
			score += weightTitle
		}
		if textContains(deref(course.Description), term) {
			score += weightDescription
		}
		if textContains(category, term) {
			score += weightCategory
		}

		for _, m := range course.Modules {
			if textContains(m.Title, term) {
				score += weightModuleTitle
			}
			if textContains(deref(m.Description), term) {
				score += weightModuleDesc
			}

			for _, l := range m.Lessons {
				if textContains(l.Title, term) {
					score += weightLessonTitle
				}
				if textContains(deref(l.Description), term) {
					score += weightLessonDesc
				}
				if textContains(deref(l.ContentText), term) {
					score += weightLessonBody
				}
			}
		}
	}

	return score
}

// Terms splits a raw query into lowercase search terms, dropping
// single-character fragments.
func Terms(query string) []string {
	var terms []string
	for _, t := range strings.Fields(strings.ToLower(query)) {
		if len(t) > 1 {
			terms = append(terms, t)
		}
	}
	return terms
}

// Search scores every course against the query, drops non-matches,
// and returns the top results in descending score order.
func Search(courses []models.Course, query string) Result {
	terms := Terms(query)
	if len(terms) == 0 {
		return Result{Message: "Please provide a search term.", Courses: []CourseResult{}}
	}

	type scored struct {
		course *models.Course
		score  int
	}
	var matches []scored
	for i := range courses {
		if s := Score(&courses[i], terms); s > 0 {
			matches = append(matches, scored{&courses[i], s})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}

	if len(matches) == 0 {
		return Result{
			Message: "No courses, modules, or lessons found matching your query.",
			Courses: []CourseResult{},
		}
	}

	results := make([]CourseResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, formatCourse(m.course))
	}

	plural := "s"
	if len(matches) == 1 {
		plural = ""
	}
	return Result{
		Found:   true,
		Message: fmt.Sprintf("Found %d course%s with relevant content.", len(matches), plural),
		Courses: results,
	}
}

func formatCourse(course *models.Course) CourseResult {
	var category *string
	if course.Category != nil {
		category = &course.Category.Title
	}

	lessonCount := 0
	modules := make([]ModuleResult, 0, len(course.Modules))
	for _, m := range course.Modules {
		lessons := make([]LessonResult, 0, len(m.Lessons))
		for _, l := range m.Lessons {
			lessonCount++
			lr := LessonResult{
				Title:       l.Title,
				Description: l.Description,
			}
			if l.Slug != nil {
				slug := l.Slug.Current
				url := "/lessons/" + slug
				lr.Slug = &slug
				lr.LessonURL = &url
			}
			if l.ContentText != nil {
				preview := *l.ContentText
				if len(preview) > contentPreviewLen {
					preview = preview[:contentPreviewLen] + "..."
				}
				lr.ContentPreview = &preview
			}
			lessons = append(lessons, lr)
		}
		modules = append(modules, ModuleResult{
			Title:       m.Title,
			Description: m.Description,
			Lessons:     lessons,
		})
	}

	return CourseResult{
		ID:          course.ID,
		Title:       course.Title,
		Slug:        course.SlugValue(),
		Description: course.Description,
		Tier:        course.Tier,
		Category:    category,
		URL:         "/courses/" + course.SlugValue(),
		ModuleCount: len(modules),
		LessonCount: lessonCount,
		Modules:     modules,
	}
}
