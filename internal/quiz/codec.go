package quiz

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RecordSeparator joins tokens in a stored session string.
const RecordSeparator = "--"

var (
	questionToken = regexp.MustCompile(`^Q:([2-4]):([0-3]):([0-3])$`)
	codeToken     = regexp.MustCompile(`^C:(.{1,12})$`)
)

// Record is the stored form of one finalized inquiry element.
type Record struct {
	Type        ElementType
	Language    string
	OptionCount int
	AnswerIndex int
	Selected    int
}

// Encode renders records as a stored session string, e.g. "C:go--Q:4:1:2".
func Encode(records []Record) string {
	tokens := make([]string, len(records))
	for i, r := range records {
		switch r.Type {
		case TypeQuestion:
			tokens[i] = fmt.Sprintf("Q:%d:%d:%d", r.OptionCount, r.AnswerIndex, r.Selected)
		case TypeCodeSample:
			tokens[i] = "C:" + r.Language
		default:
			panic("quiz: cannot encode element type " + string(r.Type))
		}
	}
	return strings.Join(tokens, RecordSeparator)
}

// Decode parses a stored session string. A single bad token invalidates the
// whole string and ok is false.
func Decode(s string) (records []Record, ok bool) {
	tokens := strings.Split(s, RecordSeparator)
	records = make([]Record, 0, len(tokens))
	for _, tok := range tokens {
		r, ok := decodeToken(tok)
		if !ok {
			return nil, false
		}
		records = append(records, r)
	}
	return records, true
}

func decodeToken(tok string) (Record, bool) {
	if m := questionToken.FindStringSubmatch(tok); m != nil {
		// The pattern guarantees single digits.
		count, _ := strconv.Atoi(m[1])
		answer, _ := strconv.Atoi(m[2])
		selected, _ := strconv.Atoi(m[3])
		if answer > count-1 || selected > count-1 {
			return Record{}, false
		}
		return Record{Type: TypeQuestion, OptionCount: count, AnswerIndex: answer, Selected: selected}, true
	}
	if m := codeToken.FindStringSubmatch(tok); m != nil {
		return Record{Type: TypeCodeSample, Language: m[1]}, true
	}
	return Record{}, false
}

// StoredDataIsValidForQuiz reports whether decoded records describe the
// configured elements. Selections are user data and are not compared.
func StoredDataIsValidForQuiz(records []Record, elements []Element) bool {
	if len(records) != len(elements) {
		return false
	}
	for i, e := range elements {
		r := records[i]
		if r.Type != e.Type {
			return false
		}
		switch e.Type {
		case TypeCodeSample:
			if r.Language != e.Language {
				return false
			}
		case TypeQuestion:
			if r.OptionCount != len(e.Options) || r.AnswerIndex != e.AnswerIndex {
				return false
			}
		case TypeResult:
			return false
		default:
			panic("quiz: unknown element type " + string(e.Type))
		}
	}
	return true
}

// StorageKey derives the key a quiz's session is stored under. When
// scopeToPath is false the session is shared across all paths.
func StorageKey(id, pathname string, scopeToPath bool) string {
	if !scopeToPath || pathname == "" {
		pathname = "*"
	}
	return fmt.Sprintf("Quiz::id=%s::pname=%s", id, pathname)
}
