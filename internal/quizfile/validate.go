package quizfile

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/abhisek/quizdeck/internal/quiz"
)

// SupportedMajor is the quiz file format major version this build reads.
const SupportedMajor = "v1"

// Issue captures a validation problem with a quiz file field.
type Issue struct {
	Field   string
	Message string
}

// ValidationError aggregates quiz file validation issues.
type ValidationError struct {
	Issues []Issue
}

// Error renders validation errors as a multi-line string.
func (err *ValidationError) Error() string {
	if err == nil || len(err.Issues) == 0 {
		return "quiz file validation failed"
	}
	lines := make([]string, 0, len(err.Issues))
	for _, issue := range err.Issues {
		lines = append(lines, fmt.Sprintf("%s: %s", issue.Field, issue.Message))
	}
	return strings.Join(lines, "\n")
}

// Validate checks the document shape, the format version and the quiz
// configuration rules.
func Validate(f *File) error {
	var issues []Issue
	add := func(field, message string) {
		issues = append(issues, Issue{Field: field, Message: message})
	}

	switch {
	case f.Format == "":
		add("format", "is required")
	case !semver.IsValid(f.Format):
		add("format", fmt.Sprintf("%q is not a version like %s.0", f.Format, SupportedMajor))
	case semver.Major(f.Format) != SupportedMajor:
		add("format", fmt.Sprintf("unsupported format %s (this build reads %s.x)", f.Format, SupportedMajor))
	}

	shape, err := schemaIssues(f)
	if err != nil {
		return err
	}
	issues = append(issues, shape...)
	if len(shape) > 0 {
		return &ValidationError{Issues: issues}
	}

	cfg, err := f.ToConfig("")
	if err != nil {
		add("elements", err.Error())
		return &ValidationError{Issues: issues}
	}
	var cerr *quiz.ConfigError
	if err := quiz.ValidateConfig(cfg.Elements); errors.As(err, &cerr) {
		for _, p := range cerr.Problems {
			add("elements", p)
		}
	} else if err != nil {
		add("elements", err.Error())
	}

	if f.Finalized {
		for i, e := range f.Elements {
			if e.Type != "question" {
				continue
			}
			field := fmt.Sprintf("elements[%d].selected", i)
			switch {
			case e.Selected == nil:
				add(field, "is required when the quiz is finalized")
			case *e.Selected >= len(e.Options):
				add(field, fmt.Sprintf("option %d out of range", *e.Selected))
			}
		}
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}
