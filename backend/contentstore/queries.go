package contentstore

import (
	"context"

	"academy/backend/models"
)

// Read queries, one constant per view. Each projects exactly the typed
// shape its fetcher decodes into; fields the view does not use are not
// fetched.

const featuredCoursesQuery = `*[
  _type == "course"
  && featured == true
] | order(_createdAt desc)[0...6] {
  _id,
  title,
  slug,
  description,
  tier,
  featured,
  thumbnail { asset-> { _id, url } },
  "moduleCount": count(modules),
  "lessonCount": count(modules[]->lessons[])
}`

const allCoursesQuery = `*[
  _type == "course"
] | order(_createdAt desc) {
  _id,
  title,
  slug,
  description,
  tier,
  featured,
  thumbnail { asset-> { _id, url } },
  category-> { _id, title },
  "moduleCount": count(modules),
  "lessonCount": count(modules[]->lessons[])
}`

const dashboardCoursesQuery = `*[
  _type == "course"
] | order(_createdAt desc) {
  _id,
  title,
  slug,
  description,
  tier,
  featured,
  completedBy,
  thumbnail { asset-> { _id, url } },
  category-> { _id, title },
  modules[]-> {
    _id,
    title,
    lessons[]-> { _id, title, completedBy }
  },
  "moduleCount": count(modules),
  "lessonCount": count(modules[]->lessons[])
}`

const courseBySlugQuery = `*[
  _type == "course"
  && slug.current == $slug
][0] {
  _id,
  title,
  slug,
  description,
  tier,
  featured,
  thumbnail { asset-> { _id, url } },
  category-> { _id, title },
  modules[]-> {
    _id,
    title,
    description,
    completedBy,
    lessons[]-> {
      _id,
      title,
      slug,
      description,
      completedBy,
      video { asset-> { playbackId } }
    }
  },
  completedBy,
  "moduleCount": count(modules),
  "lessonCount": count(modules[]->lessons[])
}`

const lessonBySlugQuery = `*[
  _type == "lesson"
  && slug.current == $slug
][0] {
  _id,
  title,
  slug,
  description,
  video {
    asset-> { playbackId, status, data { duration } }
  },
  "contentText": pt::text(content),
  completedBy,
  "courses": *[_type == "course" && ^._id in modules[]->lessons[]->_id] | order(
    select(tier == "free" => 0, tier == "pro" => 1, tier == "ultra" => 2)
  ) {
    _id,
    title,
    slug,
    tier,
    modules[]-> {
      _id,
      title,
      lessons[]-> { _id, title, slug, completedBy }
    }
  }
}`

const allCoursesWithContentQuery = `*[
  _type == "course"
] | order(_createdAt desc) {
  _id,
  title,
  slug,
  description,
  tier,
  category-> { _id, title },
  modules[]-> {
    _id,
    title,
    description,
    lessons[]-> {
      _id,
      title,
      slug,
      description,
      "contentText": pt::text(content)
    }
  }
}`

const statsQuery = `{
  "courseCount": count(*[_type == "course"]),
  "lessonCount": count(*[_type == "lesson"])
}`

func (c *Client) FeaturedCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	err := c.Query(ctx, featuredCoursesQuery, nil, &courses)
	return courses, err
}

func (c *Client) AllCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	err := c.Query(ctx, allCoursesQuery, nil, &courses)
	return courses, err
}

// DashboardCourses returns every course with just enough nesting to
// derive per-course completion for the dashboard listing.
func (c *Client) DashboardCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	err := c.Query(ctx, dashboardCoursesQuery, nil, &courses)
	return courses, err
}

// CourseBySlug returns the denormalized course tree, or nil when no
// course has the slug.
func (c *Client) CourseBySlug(ctx context.Context, slug string) (*models.Course, error) {
	var course *models.Course
	err := c.Query(ctx, courseBySlugQuery, map[string]interface{}{"slug": slug}, &course)
	return course, err
}

// LessonBySlug returns the lesson plus its parent courses, or nil when
// no lesson has the slug.
func (c *Client) LessonBySlug(ctx context.Context, slug string) (*models.LessonDetail, error) {
	var lesson *models.LessonDetail
	err := c.Query(ctx, lessonBySlugQuery, map[string]interface{}{"slug": slug}, &lesson)
	return lesson, err
}

// AllCoursesWithContent returns the full catalog with lesson body text,
// the corpus the tutor's search tool scores over.
func (c *Client) AllCoursesWithContent(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	err := c.Query(ctx, allCoursesWithContentQuery, nil, &courses)
	return courses, err
}

func (c *Client) Stats(ctx context.Context) (models.Stats, error) {
	var stats models.Stats
	err := c.Query(ctx, statsQuery, nil, &stats)
	return stats, err
}
