package nodes

import (
	"context"
	"errors"

	"devops-assistant-be/internal/pkg/logger"
	"devops-assistant-be/pkg/llm"
	"devops-assistant-be/pkg/mcp"
	"devops-assistant-be/pkg/search"
)

// scriptedLLM returns canned replies in order and records every prompt.
type scriptedLLM struct {
	replies []scriptedReply
	prompts []string
}

type scriptedReply struct {
	text string
	err  error
}

func (f *scriptedLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if len(f.replies) == 0 {
		return "", errors.New("scriptedLLM: no reply scripted")
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply.text, reply.err
}

func (f *scriptedLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	if len(history) == 0 {
		return f.Generate(ctx, "", opts...)
	}
	return f.Generate(ctx, history[len(history)-1].Content, opts...)
}

func (f *scriptedLLM) calls() int {
	return len(f.prompts)
}

type fakeSearcher struct {
	results []search.Result
	err     error
	queries []string
}

func (f *fakeSearcher) Search(ctx context.Context, query string, topK int) ([]search.Result, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

type fakeTool struct {
	name    string
	results []mcp.SearchResult
	err     error
	queries []string
}

func (f *fakeTool) Name() string {
	if f.name == "" {
		return "google"
	}
	return f.name
}

func (f *fakeTool) Search(ctx context.Context, query string, num int) ([]mcp.SearchResult, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

// nopLogger satisfies logger.ILogger for tests.
type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

var _ logger.ILogger = nopLogger{}
