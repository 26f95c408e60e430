// Package explain drafts question explanations with an LLM.
package explain

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/quizdeck/internal/llm"
	"github.com/abhisek/quizdeck/internal/quizfile"
)

// Draft is a proposed explanation for one question.
type Draft struct {
	Index       int
	Title       string
	Explanation string
}

// Service drafts explanations for questions that lack one.
type Service struct {
	provider llm.Provider
	cfg      Config
	logger   *zap.Logger
}

// NewService creates an explanation drafting service.
func NewService(provider llm.Provider, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: provider, cfg: cfg, logger: logger}
}

type explanationsOutput struct {
	Explanations []struct {
		Index       int    `json:"index"`
		Explanation string `json:"explanation"`
	} `json:"explanations"`
}

// Draft asks the provider for explanations of every question in f without
// one. It returns no drafts and no error when nothing is missing.
func (s *Service) Draft(ctx context.Context, f *quizfile.File) ([]Draft, error) {
	missing := f.QuestionsWithoutExplanation()
	if len(missing) == 0 {
		return nil, nil
	}

	ctx = llm.WithPurpose(ctx, "explanation")
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(f, missing)},
		},
		Schema:      ExplanationSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("explanation generation: %w", err)
	}

	var out explanationsOutput
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return nil, fmt.Errorf("parse explanation response: %w", err)
	}

	wanted := make(map[int]bool, len(missing))
	for _, i := range missing {
		wanted[i] = true
	}

	var drafts []Draft
	for _, e := range out.Explanations {
		text := strings.TrimSpace(e.Explanation)
		if !wanted[e.Index] || text == "" {
			s.logger.Warn("discarding explanation",
				zap.String("quiz", f.ID),
				zap.Int("index", e.Index))
			continue
		}
		wanted[e.Index] = false
		drafts = append(drafts, Draft{Index: e.Index, Title: f.Elements[e.Index].Title, Explanation: text})
	}
	sort.Slice(drafts, func(i, j int) bool { return drafts[i].Index < drafts[j].Index })

	if len(drafts) < len(missing) {
		s.logger.Info("some questions left without explanation",
			zap.String("quiz", f.ID),
			zap.Int("missing", len(missing)),
			zap.Int("drafted", len(drafts)))
	}
	return drafts, nil
}

// Apply writes drafts into f and returns how many were applied. Questions
// that already have an explanation are left unchanged.
func Apply(f *quizfile.File, drafts []Draft) int {
	n := 0
	for _, d := range drafts {
		if d.Index < 0 || d.Index >= len(f.Elements) {
			continue
		}
		e := &f.Elements[d.Index]
		if e.Type != "question" || e.Explanation != "" {
			continue
		}
		e.Explanation = d.Explanation
		n++
	}
	return n
}
