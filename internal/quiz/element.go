package quiz

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ElementType discriminates the slide variants.
type ElementType string

const (
	TypeCodeSample ElementType = "code"
	TypeQuestion   ElementType = "question"
	TypeResult     ElementType = "result"
)

const (
	MinInquiryElements = 1
	MaxInquiryElements = 5
	MinOptions         = 2
	MaxOptions         = 4
	MaxLanguageLength  = 12
)

// SelectionMode governs forward navigation before the result.
type SelectionMode string

const (
	// ModeSequential blocks moving past a question until it is answered.
	ModeSequential SelectionMode = "sequential"
	// ModeFree allows moving forward freely up to the result.
	ModeFree SelectionMode = "free"
)

// ParseSelectionMode converts a config string into a SelectionMode.
// An empty string selects sequential mode.
func ParseSelectionMode(s string) (SelectionMode, error) {
	switch SelectionMode(s) {
	case "", ModeSequential:
		return ModeSequential, nil
	case ModeFree:
		return ModeFree, nil
	default:
		return "", fmt.Errorf("unknown selection mode %q", s)
	}
}

// Element is one configured slide. Which fields are meaningful depends on Type.
type Element struct {
	Type  ElementType
	Title string

	// Code sample fields.
	Language string
	Snippet  string

	// Question fields.
	Options     []string
	AnswerIndex int
	Explanation string

	// FinalAnswer carries the recorded answer of a quiz constructed as finalized.
	FinalAnswer *int
}

// IsInquiry reports whether the element is user-facing content (not the result).
func (e Element) IsInquiry() bool {
	switch e.Type {
	case TypeCodeSample, TypeQuestion:
		return true
	case TypeResult:
		return false
	default:
		panic(fmt.Sprintf("quiz: unknown element type %q", e.Type))
	}
}

// ValidateConfig checks the configured inquiry elements.
func ValidateConfig(elements []Element) error {
	var problems []string

	n := len(elements)
	if n < MinInquiryElements || n > MaxInquiryElements {
		problems = append(problems, fmt.Sprintf("expected %d-%d elements, got %d", MinInquiryElements, MaxInquiryElements, n))
	}

	for i, e := range elements {
		switch e.Type {
		case TypeCodeSample:
			if problem := languageProblem(e.Language); problem != "" {
				problems = append(problems, fmt.Sprintf("element %d: %s", i, problem))
			}
		case TypeQuestion:
			if len(e.Options) < MinOptions || len(e.Options) > MaxOptions {
				problems = append(problems, fmt.Sprintf("element %d: expected %d-%d options, got %d", i, MinOptions, MaxOptions, len(e.Options)))
			} else if e.AnswerIndex < 0 || e.AnswerIndex >= len(e.Options) {
				problems = append(problems, fmt.Sprintf("element %d: answer index %d out of range", i, e.AnswerIndex))
			}
		case TypeResult:
			problems = append(problems, fmt.Sprintf("element %d: result slides are synthesized and cannot be configured", i))
		default:
			problems = append(problems, fmt.Sprintf("element %d: unknown type %q", i, e.Type))
		}
	}

	if n > 0 && elements[n-1].Type != TypeQuestion {
		problems = append(problems, "the last element must be a question")
	}

	if len(problems) > 0 {
		return &ConfigError{Problems: problems}
	}
	return nil
}

// languageProblem describes why lang cannot be stored in a session string,
// or returns "". The "--" separator must never appear in an encoded token,
// including across the boundary with a neighbouring token.
func languageProblem(lang string) string {
	switch n := utf8.RuneCountInString(lang); {
	case n == 0:
		return "code sample needs a language"
	case n > MaxLanguageLength:
		return fmt.Sprintf("language %q is longer than %d characters", lang, MaxLanguageLength)
	case strings.ContainsAny(lang, "\n\r"):
		return fmt.Sprintf("language %q contains a line break", lang)
	case strings.HasPrefix(lang, "-") || strings.HasSuffix(lang, "-"):
		return fmt.Sprintf("language %q starts or ends with '-'", lang)
	case strings.Contains(lang, RecordSeparator):
		return fmt.Sprintf("language %q contains %q", lang, RecordSeparator)
	}
	return ""
}

// Slides returns the configured elements followed by the synthesized result.
func Slides(elements []Element) []Element {
	slides := make([]Element, 0, len(elements)+1)
	slides = append(slides, elements...)
	return append(slides, Element{Type: TypeResult, Title: "Result"})
}

// QuestionCount counts the question elements.
func QuestionCount(elements []Element) int {
	n := 0
	for _, e := range elements {
		if e.Type == TypeQuestion {
			n++
		}
	}
	return n
}
