package generator

import (
	"context"

	"github.com/elicitlabs/elicit/internal/domain"
)

// MockClient is a configurable generator for testing.
// Set the response fields to control what each method returns.
type MockClient struct {
	QuestionResponse string
	QuestionError    error
	QueryResponse    string
	QueryError       error

	// Call tracking for assertions
	QuestionCalls []domain.GenerationRequest
	QueryCalls    []domain.GenerationRequest
}

func NewMockClient() *MockClient {
	return &MockClient{
		QuestionResponse: "Could you tell me more about that?",
		QueryResponse:    "mock query",
	}
}

func (c *MockClient) Question(ctx context.Context, req domain.GenerationRequest) (string, error) {
	c.QuestionCalls = append(c.QuestionCalls, req)
	if c.QuestionError != nil {
		return "", c.QuestionError
	}
	return c.QuestionResponse, nil
}

func (c *MockClient) Query(ctx context.Context, req domain.GenerationRequest) (string, error) {
	c.QueryCalls = append(c.QueryCalls, req)
	if c.QueryError != nil {
		return "", c.QueryError
	}
	return c.QueryResponse, nil
}

// Reset clears recorded calls and restores the default responses.
func (c *MockClient) Reset() {
	c.QuestionResponse = "Could you tell me more about that?"
	c.QuestionError = nil
	c.QueryResponse = "mock query"
	c.QueryError = nil
	c.QuestionCalls = nil
	c.QueryCalls = nil
}
