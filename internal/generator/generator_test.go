package generator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/elicitlabs/elicit/internal/domain"
	"github.com/elicitlabs/elicit/internal/template"
)

func TestFallbackClient_QuestionUsesCuratedText(t *testing.T) {
	c := NewFallbackClient()
	q, err := c.Question(context.Background(), domain.GenerationRequest{
		Context:  template.Postmortem,
		Language: "English",
		Slots:    []domain.Slot{{Name: "impact"}},
	})
	if err != nil {
		t.Fatalf("question: %v", err)
	}
	if want := template.FallbackQuestion(template.Postmortem, "impact", "English"); q != want {
		t.Errorf("question = %q, want %q", q, want)
	}
}

func TestFallbackClient_BundledQuestion(t *testing.T) {
	c := NewFallbackClient()
	q, err := c.Question(context.Background(), domain.GenerationRequest{
		Context:  template.Postmortem,
		Language: "English",
		Slots:    []domain.Slot{{Name: "impact"}, {Name: "timeline"}},
	})
	if err != nil {
		t.Fatalf("question: %v", err)
	}
	if !strings.Contains(q, "impact") && !strings.Contains(q, "timeline") {
		t.Errorf("bundled question should cover both slots: %q", q)
	}
	if len(q) <= len(template.FallbackQuestion(template.Postmortem, "impact", "English")) {
		t.Errorf("bundled question should join both curated texts: %q", q)
	}
}

func TestFallbackClient_QueryFromSlotNames(t *testing.T) {
	c := NewFallbackClient()
	q, err := c.Query(context.Background(), domain.GenerationRequest{
		Context: template.Postmortem,
		Slots:   []domain.Slot{{Name: "detection_ttd"}},
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if !strings.Contains(q, "postmortem") || !strings.Contains(q, "detection ttd") {
		t.Errorf("query = %q, want template and slot terms", q)
	}
}

func TestChain_FirstNonEmptyWins(t *testing.T) {
	broken := NewMockClient()
	broken.QuestionError = &domain.GenerationError{Provider: "mock", Err: errors.New("down")}
	working := NewMockClient()
	working.QuestionResponse = "What happened first?"

	chain := NewChain(broken, working)
	q, err := chain.Question(context.Background(), domain.GenerationRequest{})
	if err != nil {
		t.Fatalf("question: %v", err)
	}
	if q != "What happened first?" {
		t.Errorf("question = %q", q)
	}
	if len(broken.QuestionCalls) != 1 || len(working.QuestionCalls) != 1 {
		t.Error("chain should try clients in order")
	}
}

func TestChain_AllFailReturnsLastError(t *testing.T) {
	broken := NewMockClient()
	broken.QueryError = &domain.GenerationError{Provider: "mock", Err: errors.New("down")}

	chain := NewChain(broken)
	_, err := chain.Query(context.Background(), domain.GenerationRequest{})
	var genErr *domain.GenerationError
	if !errors.As(err, &genErr) {
		t.Errorf("expected GenerationError, got %v", err)
	}
}

func TestNewClient(t *testing.T) {
	if _, err := NewClient(ProviderOpenAI, ""); err == nil {
		t.Error("openai without key should fail")
	}
	if _, err := NewClient(ProviderFallback, ""); err != nil {
		t.Errorf("fallback: %v", err)
	}
	if _, err := NewClient(ProviderMock, ""); err != nil {
		t.Errorf("mock: %v", err)
	}
	if _, err := NewClient("carrier-pigeon", ""); err == nil {
		t.Error("unknown provider should fail")
	}
}

func TestCleanLine(t *testing.T) {
	if got := cleanLine("```\n\"What broke?\"\n```"); got != "What broke?" {
		t.Errorf("cleanLine = %q", got)
	}
	if got := cleanLine("  first line \n second"); got != "first line" {
		t.Errorf("cleanLine = %q", got)
	}
}
