package tutor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"academy/backend/config"
	"academy/backend/contentstore"
)

const catalogFixture = `{"result": [{
	"_id": "course-1",
	"title": "Advanced Go",
	"slug": {"current": "advanced-go"},
	"tier": "pro",
	"modules": [{
		"_id": "m1",
		"title": "Generics",
		"lessons": [{
			"_id": "l1",
			"title": "Type Parameters",
			"slug": {"current": "type-parameters"},
			"contentText": "Generics let you write type parameters once."
		}]
	}]
}]}`

// newTestAgent backs both the model endpoint and the content store with
// one fake server.
func newTestAgent(t *testing.T, completions []string) (*Agent, *[][]Message) {
	t.Helper()

	var seen [][]Message
	var round int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasPrefix(r.URL.Path, "/data/query/") {
			_, _ = w.Write([]byte(catalogFixture))
			return
		}

		var body struct {
			Messages []Message `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		seen = append(seen, body.Messages)

		require.Less(t, round, len(completions), "model called more times than scripted")
		_, _ = w.Write([]byte(completions[round]))
		round++
	}))
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		ContentAPIURL:  srv.URL,
		ContentDataset: "production",
		LLMAPIURL:      srv.URL,
		LLMModel:       "test-model",
	}
	return New(cfg, contentstore.New(cfg)), &seen
}

func completionWith(msg Message) string {
	payload, _ := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": msg, "finish_reason": "stop"},
		},
	})
	return string(payload)
}

func TestChatExecutesToolCallAndReturnsAnswer(t *testing.T) {
	agent, seen := newTestAgent(t, []string{
		completionWith(Message{
			Role: "assistant",
			ToolCalls: []ToolCall{{
				ID:   "call-1",
				Type: "function",
				Function: FunctionCall{
					Name:      "searchCourses",
					Arguments: `{"query": "generics"}`,
				},
			}},
		}),
		completionWith(Message{
			Role:    "assistant",
			Content: "Start with [Type Parameters](/lessons/type-parameters).",
		}),
	})

	reply, err := agent.Chat(context.Background(), []Message{
		{Role: "user", Content: "How do generics work?"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Start with [Type Parameters](/lessons/type-parameters).", reply)

	require.Len(t, *seen, 2)

	// First round: system prompt then the user turn.
	first := (*seen)[0]
	require.Len(t, first, 2)
	assert.Equal(t, "system", first[0].Role)
	assert.Equal(t, "user", first[1].Role)

	// Second round carries the assistant's tool call and the tool output.
	second := (*seen)[1]
	require.Len(t, second, 4)
	assert.Equal(t, "assistant", second[2].Role)
	toolMsg := second[3]
	assert.Equal(t, "tool", toolMsg.Role)
	assert.Equal(t, "call-1", toolMsg.ToolCallID)
	assert.Contains(t, toolMsg.Content, `"found":true`)
	assert.Contains(t, toolMsg.Content, "Advanced Go")
}

func TestChatPlainAnswerSkipsTools(t *testing.T) {
	agent, seen := newTestAgent(t, []string{
		completionWith(Message{Role: "assistant", Content: "Hello!"}),
	})

	reply, err := agent.Chat(context.Background(), []Message{
		{Role: "user", Content: "Hi"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hello!", reply)
	assert.Len(t, *seen, 1)
}

func TestChatStopsAfterRoundLimit(t *testing.T) {
	toolRound := completionWith(Message{
		Role: "assistant",
		ToolCalls: []ToolCall{{
			ID:   "call-n",
			Type: "function",
			Function: FunctionCall{
				Name:      "searchCourses",
				Arguments: `{"query": "loops"}`,
			},
		}},
	})

	scripted := make([]string, maxToolRounds)
	for i := range scripted {
		scripted[i] = toolRound
	}

	agent, seen := newTestAgent(t, scripted)

	_, err := agent.Chat(context.Background(), []Message{
		{Role: "user", Content: "Loop forever"},
	})
	assert.Error(t, err)
	assert.Len(t, *seen, maxToolRounds)
}

func TestExecuteToolUnknownName(t *testing.T) {
	agent, _ := newTestAgent(t, nil)

	output := agent.executeTool(context.Background(), ToolCall{
		Function: FunctionCall{Name: "deleteEverything", Arguments: "{}"},
	})
	assert.Contains(t, output, "unknown tool")

	output = agent.executeTool(context.Background(), ToolCall{
		Function: FunctionCall{Name: "searchCourses", Arguments: "not-json"},
	})
	assert.Contains(t, output, "invalid tool arguments")
}
