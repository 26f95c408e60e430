// Package quizfile reads and writes QuizDeck YAML quiz files.
package quizfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/quizdeck/internal/quiz"
)

// File is the on-disk shape of a quiz.
type File struct {
	Format    string    `yaml:"format" json:"format"`
	ID        string    `yaml:"id" json:"id"`
	Header    string    `yaml:"header,omitempty" json:"header,omitempty"`
	Mode      string    `yaml:"mode,omitempty" json:"mode,omitempty"`
	Autosave  *Autosave `yaml:"autosave,omitempty" json:"autosave,omitempty"`
	Finalized bool      `yaml:"finalized,omitempty" json:"finalized,omitempty"`
	Elements  []Element `yaml:"elements" json:"elements"`
}

// Autosave controls session persistence for a quiz.
type Autosave struct {
	Enabled     bool `yaml:"enabled" json:"enabled"`
	ScopeToPath bool `yaml:"scope_to_path,omitempty" json:"scope_to_path,omitempty"`
}

// Element is one slide entry. Type is "code" or "question".
type Element struct {
	Type        string   `yaml:"type" json:"type"`
	Title       string   `yaml:"title,omitempty" json:"title,omitempty"`
	Language    string   `yaml:"language,omitempty" json:"language,omitempty"`
	Snippet     string   `yaml:"snippet,omitempty" json:"snippet,omitempty"`
	Options     []string `yaml:"options,omitempty" json:"options,omitempty"`
	Answer      *int     `yaml:"answer,omitempty" json:"answer,omitempty"`
	Explanation string   `yaml:"explanation,omitempty" json:"explanation,omitempty"`
	Selected    *int     `yaml:"selected,omitempty" json:"selected,omitempty"`
}

// Parse decodes a single YAML document. Unknown fields are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("parse quiz file: empty document")
		}
		return nil, fmt.Errorf("parse quiz file: %w", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("parse quiz file: multiple YAML documents are not supported")
		}
		return nil, fmt.Errorf("parse quiz file: %w", err)
	}
	return &f, nil
}

// Load reads, parses and validates the quiz file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read quiz file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := Validate(f); err != nil {
		return nil, err
	}
	return f, nil
}

// Marshal renders f as YAML with two-space indentation.
func Marshal(f *File) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return nil, fmt.Errorf("encode quiz file: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode quiz file: %w", err)
	}
	return buf.Bytes(), nil
}

// Write replaces the file at path with f.
func Write(path string, f *File) error {
	data, err := Marshal(f)
	if err != nil {
		return err
	}
	info, err := os.Stat(path)
	perm := os.FileMode(0o644)
	if err == nil {
		perm = info.Mode().Perm()
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("write quiz file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write quiz file: %w", err)
	}
	return nil
}

// ToConfig converts a validated file into a widget configuration.
// pathname is used as the storage scope when autosave is path-scoped.
func (f *File) ToConfig(pathname string) (quiz.Config, error) {
	mode, err := quiz.ParseSelectionMode(f.Mode)
	if err != nil {
		return quiz.Config{}, err
	}

	cfg := quiz.Config{
		ID:        f.ID,
		Header:    f.Header,
		Mode:      mode,
		Finalized: f.Finalized,
		Elements:  make([]quiz.Element, 0, len(f.Elements)),
	}
	if f.Autosave != nil {
		cfg.Autosave = quiz.AutosaveConfig{
			Enabled:     f.Autosave.Enabled,
			ScopeToPath: f.Autosave.ScopeToPath,
			Pathname:    pathname,
		}
	}

	for i, e := range f.Elements {
		switch e.Type {
		case "code":
			cfg.Elements = append(cfg.Elements, quiz.Element{
				Type:     quiz.TypeCodeSample,
				Title:    e.Title,
				Language: e.Language,
				Snippet:  e.Snippet,
			})
		case "question":
			if e.Answer == nil {
				return quiz.Config{}, fmt.Errorf("element %d: question has no answer", i)
			}
			el := quiz.Element{
				Type:        quiz.TypeQuestion,
				Title:       e.Title,
				Options:     append([]string(nil), e.Options...),
				AnswerIndex: *e.Answer,
				Explanation: e.Explanation,
			}
			if e.Selected != nil {
				sel := *e.Selected
				el.FinalAnswer = &sel
			}
			cfg.Elements = append(cfg.Elements, el)
		default:
			return quiz.Config{}, fmt.Errorf("element %d: unknown type %q", i, e.Type)
		}
	}
	return cfg, nil
}

// QuestionsWithoutExplanation returns the element indexes of questions that
// have no explanation.
func (f *File) QuestionsWithoutExplanation() []int {
	var out []int
	for i, e := range f.Elements {
		if e.Type == "question" && e.Explanation == "" {
			out = append(out, i)
		}
	}
	return out
}
