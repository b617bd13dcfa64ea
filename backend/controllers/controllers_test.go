package controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy/backend/config"
	"academy/backend/routes"
	"academy/backend/utils"
)

// newTestApp wires the full route table against a fake platform
// backend so handlers are exercised exactly as deployed.
func newTestApp(t *testing.T, platform http.HandlerFunc) (*fiber.App, *config.Config) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		platform(w, r)
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		ContentAPIURL:  srv.URL,
		ContentDataset: "production",
		SessionSecret:  "test-secret",
		LLMAPIURL:      srv.URL,
		LLMModel:       "test-model",
	}

	app := fiber.New()
	routes.SetupRoutes(app, cfg, utils.InitLogger())
	return app, cfg
}

func jsonRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	return result
}

const courseFixture = `{"result": {
	"_id": "course-1",
	"title": "Advanced Go",
	"slug": {"current": "advanced-go"},
	"tier": "pro",
	"modules": [{
		"_id": "m1",
		"title": "Generics",
		"lessons": [
			{"_id": "l1", "title": "Type Parameters", "slug": {"current": "type-parameters"}, "completedBy": ["u1"]},
			{"_id": "l2", "title": "Constraints", "slug": {"current": "constraints"}}
		]
	}]
}}`

func TestToggleLessonCompletionUnauthenticated(t *testing.T) {
	var mutateCalls int
	app, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/data/mutate/") {
			mutateCalls++
		}
		_, _ = w.Write([]byte(`{"result": null}`))
	})

	req := jsonRequest(t, "POST", "/api/lessons/l1/completion", fiber.Map{
		"slug":         "type-parameters",
		"markComplete": true,
	})
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, false, body["isCompleted"])
	// No mutation may be attempted for anonymous callers.
	assert.Zero(t, mutateCalls)
}

func TestToggleLessonCompletion(t *testing.T) {
	var mutatePaths []string
	app, cfg := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/data/mutate/") {
			mutatePaths = append(mutatePaths, r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"result": null}`))
	})

	token, err := utils.GenerateSessionToken("u1", []string{"pro"}, cfg)
	require.NoError(t, err)

	req := jsonRequest(t, "POST", "/api/lessons/l1/completion", fiber.Map{
		"slug":         "type-parameters",
		"markComplete": true,
	})
	req.Header.Set("Authorization", token)

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["isCompleted"])
	assert.Equal(t, []string{"/data/mutate/production"}, mutatePaths)
}

func TestToggleReportsPreToggleStateOnFailure(t *testing.T) {
	app, cfg := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/data/mutate/") {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"result": null}`))
	})

	token, err := utils.GenerateSessionToken("u1", nil, cfg)
	require.NoError(t, err)

	req := jsonRequest(t, "POST", "/api/courses/course-1/completion", fiber.Map{
		"slug":         "advanced-go",
		"markComplete": true,
	})
	req.Header.Set("Authorization", token)

	resp, err := app.Test(req)
	require.NoError(t, err)

	// The backend failure is absorbed; the caller learns the pre-toggle
	// state so optimistic UI can revert.
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, false, body["isCompleted"])
}

func TestCourseDetailsGatedForFreeUser(t *testing.T) {
	app, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(courseFixture))
	})

	req := httptest.NewRequest("GET", "/api/courses/advanced-go", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, true, body["gated"])
	assert.Equal(t, "pro", body["requiredTier"])
	// The gated branch must not leak the module tree.
	assert.NotContains(t, body, "modules")
}

func TestCourseDetailsGrantedForProUser(t *testing.T) {
	app, cfg := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(courseFixture))
	})

	token, err := utils.GenerateSessionToken("u1", []string{"pro"}, cfg)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/courses/advanced-go", nil)
	req.Header.Set("Authorization", token)

	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, false, body["gated"])

	prog := body["progress"].(map[string]interface{})
	assert.Equal(t, float64(2), prog["totalLessons"])
	assert.Equal(t, float64(1), prog["completedLessons"])
	// 1 of 2 lessons done: the mark-complete action stays disabled.
	assert.Equal(t, false, body["canMarkComplete"])
}

func TestToggleInvalidatesCourseView(t *testing.T) {
	var queryCalls int
	app, cfg := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/data/query/") {
			queryCalls++
			_, _ = w.Write([]byte(courseFixture))
			return
		}
		_, _ = w.Write([]byte(`{"result": null}`))
	})

	token, err := utils.GenerateSessionToken("u1", []string{"pro"}, cfg)
	require.NoError(t, err)

	get := func() {
		req := httptest.NewRequest("GET", "/api/courses/advanced-go", nil)
		req.Header.Set("Authorization", token)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	get()
	get()
	// Second read is served from the view cache.
	assert.Equal(t, 1, queryCalls)

	req := jsonRequest(t, "POST", "/api/courses/course-1/completion", fiber.Map{
		"slug":         "advanced-go",
		"markComplete": true,
	})
	req.Header.Set("Authorization", token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	// The toggle dropped the cached view, so the next read refetches.
	get()
	assert.Equal(t, 2, queryCalls)
}

func TestCourseDetailsNotFound(t *testing.T) {
	app, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result": null}`))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/courses/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestDashboardRequiresAuth(t *testing.T) {
	app, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result": null}`))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/dashboard", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestChatRequiresUltra(t *testing.T) {
	app, cfg := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result": null}`))
	})

	req := jsonRequest(t, "POST", "/api/chat", fiber.Map{
		"messages": []fiber.Map{{"role": "user", "content": "hi"}},
	})
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	token, err := utils.GenerateSessionToken("u1", []string{"pro"}, cfg)
	require.NoError(t, err)

	req = jsonRequest(t, "POST", "/api/chat", fiber.Map{
		"messages": []fiber.Map{{"role": "user", "content": "hi"}},
	})
	req.Header.Set("Authorization", token)

	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	app, cfg := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result": null}`))
	})

	token, err := utils.GenerateSessionToken("u1", []string{"ultra"}, cfg)
	require.NoError(t, err)

	req := jsonRequest(t, "POST", "/api/admin/documents", fiber.Map{
		"type": "course",
	})
	req.Header.Set("Authorization", token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
