package quizfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

const schemaURL = "mem://quizdeck/quizfile.json"

// documentSchema describes the shape of a quiz file. Cross-field rules that
// depend on counts (answer index within options, last element a question)
// are left to quiz.ValidateConfig.
const documentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["format", "id", "elements"],
  "properties": {
    "format": {"type": "string"},
    "id": {"type": "string", "pattern": "^[A-Za-z0-9][A-Za-z0-9_.-]*$"},
    "header": {"type": "string"},
    "mode": {"enum": ["sequential", "free"]},
    "autosave": {
      "type": "object",
      "required": ["enabled"],
      "properties": {
        "enabled": {"type": "boolean"},
        "scope_to_path": {"type": "boolean"}
      }
    },
    "finalized": {"type": "boolean"},
    "elements": {
      "type": "array",
      "minItems": 1,
      "maxItems": 5,
      "items": {"$ref": "#/$defs/element"}
    }
  },
  "$defs": {
    "element": {
      "type": "object",
      "required": ["type"],
      "properties": {
        "type": {"enum": ["code", "question"]},
        "title": {"type": "string"},
        "language": {"type": "string"},
        "snippet": {"type": "string"},
        "options": {"type": "array", "items": {"type": "string", "minLength": 1}},
        "answer": {"type": "integer", "minimum": 0, "maximum": 3},
        "explanation": {"type": "string"},
        "selected": {"type": "integer", "minimum": 0, "maximum": 3}
      },
      "allOf": [
        {
          "if": {"properties": {"type": {"const": "code"}}},
          "then": {
            "required": ["language", "snippet"],
            "properties": {
              "language": {"minLength": 1, "maxLength": 12, "pattern": "^[^-\\n\\r](?:[^\\n\\r]*[^-\\n\\r])?$", "not": {"pattern": "--"}},
              "options": false,
              "answer": false,
              "selected": false
            }
          }
        },
        {
          "if": {"properties": {"type": {"const": "question"}}},
          "then": {
            "required": ["title", "options", "answer"],
            "properties": {
              "options": {"minItems": 2, "maxItems": 4}
            }
          }
        }
      ]
    }
  }
}`

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func documentValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(documentSchema))
		if err != nil {
			compileErr = fmt.Errorf("parse quiz file schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add quiz file schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// schemaIssues validates f against the document schema and returns one
// issue per failing location.
func schemaIssues(f *File) ([]Issue, error) {
	sch, err := documentValidator()
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshal quiz file: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("unmarshal quiz file: %w", err)
	}

	err = sch.Validate(doc)
	if err == nil {
		return nil, nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil, err
	}

	var issues []Issue
	seen := map[string]bool{}
	for _, unit := range verr.BasicOutput().Errors {
		if unit.Error == nil {
			continue
		}
		issue := Issue{Field: fieldPath(unit.InstanceLocation), Message: fmt.Sprint(unit.Error)}
		key := issue.Field + "\x00" + issue.Message
		if seen[key] {
			continue
		}
		seen[key] = true
		issues = append(issues, issue)
	}
	if len(issues) == 0 {
		issues = append(issues, Issue{Field: "(root)", Message: verr.Error()})
	}
	return issues, nil
}

// fieldPath turns a JSON pointer like /elements/0/options into
// elements[0].options.
func fieldPath(pointer string) string {
	if pointer == "" || pointer == "/" {
		return "(root)"
	}
	var b strings.Builder
	for _, tok := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		tok = strings.ReplaceAll(strings.ReplaceAll(tok, "~1", "/"), "~0", "~")
		if isIndex(tok) {
			b.WriteString("[" + tok + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(tok)
	}
	return b.String()
}

func isIndex(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
