package models

// Typed shapes for the denormalized documents returned by the content
// store queries. Optional fields are pointers or slices so absent data
// decodes to nil instead of being guessed at render time.

type Slug struct {
	Current string `json:"current"`
}

type ImageAsset struct {
	ID  string `json:"_id"`
	URL string `json:"url"`
}

type Image struct {
	Asset *ImageAsset `json:"asset,omitempty"`
}

type Category struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
}

// VideoAsset is the playback record registered by the video platform
// integration once an upload has been transcoded.
type VideoAsset struct {
	PlaybackID string        `json:"playbackId"`
	Status     string        `json:"status,omitempty"`
	Data       *VideoMetrics `json:"data,omitempty"`
}

type VideoMetrics struct {
	Duration float64 `json:"duration"`
}

type Video struct {
	Asset *VideoAsset `json:"asset,omitempty"`
}

type Lesson struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	Slug        *Slug    `json:"slug,omitempty"`
	Description *string  `json:"description,omitempty"`
	Video       *Video   `json:"video,omitempty"`
	ContentText *string  `json:"contentText,omitempty"`
	CompletedBy []string `json:"completedBy,omitempty"`
}

type Module struct {
	ID          string   `json:"_id"`
	Title       string   `json:"title"`
	Description *string  `json:"description,omitempty"`
	Lessons     []Lesson `json:"lessons,omitempty"`
	CompletedBy []string `json:"completedBy,omitempty"`
}

type Course struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Slug        *Slug     `json:"slug,omitempty"`
	Description *string   `json:"description,omitempty"`
	Tier        Tier      `json:"tier,omitempty"`
	Featured    bool      `json:"featured,omitempty"`
	Thumbnail   *Image    `json:"thumbnail,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Modules     []Module  `json:"modules,omitempty"`
	CompletedBy []string  `json:"completedBy,omitempty"`
	ModuleCount int       `json:"moduleCount,omitempty"`
	LessonCount int       `json:"lessonCount,omitempty"`
}

// SlugValue returns the slug string, or "" when no slug is set.
func (c *Course) SlugValue() string {
	if c.Slug == nil {
		return ""
	}
	return c.Slug.Current
}

// SlugValue returns the slug string, or "" when no slug is set.
func (l *Lesson) SlugValue() string {
	if l.Slug == nil {
		return ""
	}
	return l.Slug.Current
}

// Reference is one entry of an ordered reference array on a document.
// Every entry gets a stable key assigned at insertion time; the key,
// not the referenced id, identifies the entry for removal/reordering.
type Reference struct {
	Key string `json:"_key"`
	Ref string `json:"_ref"`
}

// LessonDetail is a lesson plus the courses that contain it, ordered
// cheapest tier first. The parent course's tier gates the lesson.
type LessonDetail struct {
	Lesson
	Courses []Course `json:"courses,omitempty"`
}

type Stats struct {
	CourseCount int `json:"courseCount"`
	LessonCount int `json:"lessonCount"`
}
