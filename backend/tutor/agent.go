// Package tutor runs the AI learning assistant: a hosted LLM given a
// fixed system prompt and one tool that searches the course catalog.
// The model owns the reasoning; this package owns the tool-call loop
// glue and the tool's execution.
package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"

	"academy/backend/config"
	"academy/backend/contentstore"
	"academy/backend/search"
)

// maxToolRounds bounds the model call → tool execution → model call
// cycle for one request.
const maxToolRounds = 5

const systemPrompt = `You are a knowledgeable learning assistant for the academy. You help Ultra members by:
1. Finding relevant courses, modules, and lessons
2. Answering questions based on our lesson content
3. Guiding them to the right learning resources

The searchCourses tool searches course titles and descriptions, module titles and descriptions, and lesson titles, descriptions, AND full lesson content. You receive content previews from lessons, which contain the actual teaching material. Use this content to answer questions.

When a user asks a question: search for relevant content, then answer using the lesson content you received, quoting or paraphrasing the actual lesson material, and recommend the specific lesson or course for deeper learning. When a user wants to learn something: search and recommend the matching courses, highlighting specific modules and lessons.

Rules:
- Answer questions using information FROM the lesson content previews only.
- Never make up information that is not in the lesson content, and never pretend a topic is covered when it is not.
- If no relevant content is found, say: "I couldn't find content about that topic in our course catalog. Try asking about something else, or browse our courses to see what's available." Do not answer from general knowledge.

URL rules:
- ONLY use the exact URLs from search results ("url" and "lessonUrl" fields).
- URLs are always relative paths starting with "/". Never invent URLs or add domain names.
- Format links as markdown: [Lesson Title](/lessons/slug). If a URL is null or missing, do not create a link.

Response style: friendly, encouraging, educational, concise but thorough, always linking to relevant lessons for further reading.`

type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type Agent struct {
	http  *resty.Client
	model string
	store *contentstore.Client
}

func New(cfg *config.Config, store *contentstore.Client) *Agent {
	client := resty.New().
		SetBaseURL(cfg.LLMAPIURL).
		SetAuthToken(cfg.LLMAPIKey).
		SetHeader("Content-Type", "application/json")

	return &Agent{
		http:  client,
		model: cfg.LLMModel,
		store: store,
	}
}

var toolDefinitions = []map[string]interface{}{
	{
		"type": "function",
		"function": map[string]interface{}{
			"name":        "searchCourses",
			"description": "Search through all courses, modules, and lessons by topic, skill, or learning goal. This searches course titles, descriptions, module content, and lesson content to find the most relevant learning material.",
			"parameters": map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "The topic, skill, technology, or learning goal the user wants to learn about",
					},
				},
				"required": []string{"query"},
			},
		},
	},
}

type completionResponse struct {
	Choices []struct {
		Message      Message `json:"message"`
		FinishReason string  `json:"finish_reason"`
	} `json:"choices"`
}

func (a *Agent) complete(ctx context.Context, messages []Message) (*Message, error) {
	var result completionResponse
	resp, err := a.http.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"model":    a.model,
			"messages": messages,
			"tools":    toolDefinitions,
		}).
		SetResult(&result).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("tutor completion: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("tutor completion: %s", resp.Status())
	}
	if len(result.Choices) == 0 {
		return nil, errors.New("tutor completion: empty response")
	}
	return &result.Choices[0].Message, nil
}

// Chat runs one bounded request→response exchange: the conversation is
// sent to the model, tool calls are executed locally, and the loop
// repeats until the model answers in plain text.
func (a *Agent) Chat(ctx context.Context, conversation []Message) (string, error) {
	messages := append([]Message{{Role: "system", Content: systemPrompt}}, conversation...)

	for round := 0; round < maxToolRounds; round++ {
		reply, err := a.complete(ctx, messages)
		if err != nil {
			return "", err
		}
		if len(reply.ToolCalls) == 0 {
			return reply.Content, nil
		}

		messages = append(messages, *reply)
		for _, call := range reply.ToolCalls {
			output := a.executeTool(ctx, call)
			messages = append(messages, Message{
				Role:       "tool",
				ToolCallID: call.ID,
				Content:    output,
			})
		}
	}

	return "", errors.New("tutor: tool loop exceeded round limit")
}

func (a *Agent) executeTool(ctx context.Context, call ToolCall) string {
	if call.Function.Name != "searchCourses" {
		return fmt.Sprintf(`{"error": "unknown tool %q"}`, call.Function.Name)
	}

	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
		return `{"error": "invalid tool arguments"}`
	}

	result, err := a.SearchCourses(ctx, args.Query)
	if err != nil {
		return `{"error": "course search is temporarily unavailable"}`
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return `{"error": "could not encode search result"}`
	}
	return string(payload)
}

// SearchCourses is the tool body: fetch the catalog with lesson text
// and score it in-process.
func (a *Agent) SearchCourses(ctx context.Context, query string) (search.Result, error) {
	courses, err := a.store.AllCoursesWithContent(ctx)
	if err != nil {
		return search.Result{}, err
	}
	return search.Search(courses, query), nil
}
