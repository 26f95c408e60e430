package quiz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTwoQuestions(t *testing.T) {
	const stored = "Q:4:1:2--Q:3:0:0"

	records, ok := Decode(stored)
	require.True(t, ok)
	assert.Equal(t, []Record{
		{Type: TypeQuestion, OptionCount: 4, AnswerIndex: 1, Selected: 2},
		{Type: TypeQuestion, OptionCount: 3, AnswerIndex: 0, Selected: 0},
	}, records)

	finalized := []FinalizedElement{
		{Element: question(4, 1), Selected: 2},
		{Element: question(3, 0), Selected: 0},
	}
	assert.Equal(t, stored, Encode(Records(finalized)))
}

func TestDecodeRejects(t *testing.T) {
	tests := []struct {
		name   string
		stored string
	}{
		{"option count above pattern", "Q:5:1:2"},
		{"option count below pattern", "Q:1:0:0"},
		{"answer beyond options", "Q:2:3:0"},
		{"selection beyond options", "Q:3:0:3"},
		{"language too long", "C:abcdefghijklm"},
		{"empty language", "C:"},
		{"unknown token", "X:1"},
		{"empty string", ""},
		{"trailing separator", "Q:2:0:1--"},
		{"one bad token among good", "C:go--Q:4:1:9--Q:2:0:0"},
		{"lowercase prefix", "q:2:0:1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, ok := Decode(tt.stored)
			assert.False(t, ok)
			assert.Nil(t, records)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	languages := []string{"go", "javascript", "c", "objective-c", "typescript12", "c++", "f#", "ゴー言語", "a-b-c"}

	for count := MinOptions; count <= MaxOptions; count++ {
		for ans := 0; ans < count; ans++ {
			for sel := 0; sel < count; sel++ {
				records := []Record{
					{Type: TypeCodeSample, Language: languages[(count+ans+sel)%len(languages)]},
					{Type: TypeQuestion, OptionCount: count, AnswerIndex: ans, Selected: sel},
				}
				got, ok := Decode(Encode(records))
				require.True(t, ok, "encoded %q", Encode(records))
				assert.Equal(t, records, got)
			}
		}
	}
}

func TestRoundTripAcceptsEveryValidLanguage(t *testing.T) {
	for _, lang := range []string{"c", "c++", "objective-c", "typescript12", "ゴー言語", "a-b", "x86 asm"} {
		elements := []Element{codeSample(lang), question(4, 1), codeSample(lang), question(2, 0)}
		require.NoError(t, ValidateConfig(elements), lang)

		records := []Record{
			{Type: TypeCodeSample, Language: lang},
			{Type: TypeQuestion, OptionCount: 4, AnswerIndex: 1, Selected: 3},
			{Type: TypeCodeSample, Language: lang},
			{Type: TypeQuestion, OptionCount: 2, AnswerIndex: 0, Selected: 0},
		}
		got, ok := Decode(Encode(records))
		require.True(t, ok, "encoded %q", Encode(records))
		assert.Equal(t, records, got)
		assert.True(t, StoredDataIsValidForQuiz(got, elements))
	}
}

func TestDecodeFailsClosedOnAnyCorruptToken(t *testing.T) {
	good := []string{"C:go", "Q:4:1:2", "Q:3:0:0", "C:rust", "Q:2:1:1"}

	for i := range good {
		tokens := append([]string(nil), good...)
		tokens[i] = strings.Replace(tokens[i], ":", "#", 1)
		records, ok := Decode(strings.Join(tokens, RecordSeparator))
		assert.False(t, ok, "corrupt token %d", i)
		assert.Nil(t, records)
	}

	_, ok := Decode(strings.Join(good, RecordSeparator))
	assert.True(t, ok)
}

func TestStoredDataIsValidForQuiz(t *testing.T) {
	elements := []Element{codeSample("go"), question(4, 1)}
	valid := []Record{
		{Type: TypeCodeSample, Language: "go"},
		{Type: TypeQuestion, OptionCount: 4, AnswerIndex: 1, Selected: 3},
	}
	assert.True(t, StoredDataIsValidForQuiz(valid, elements))

	tests := []struct {
		name    string
		records []Record
	}{
		{"too few", valid[:1]},
		{"language changed", []Record{{Type: TypeCodeSample, Language: "rust"}, valid[1]}},
		{"option count changed", []Record{valid[0], {Type: TypeQuestion, OptionCount: 3, AnswerIndex: 1}}},
		{"answer changed", []Record{valid[0], {Type: TypeQuestion, OptionCount: 4, AnswerIndex: 2}}},
		{"type swapped", []Record{valid[1], valid[0]}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.False(t, StoredDataIsValidForQuiz(tt.records, elements))
		})
	}
}

func TestStorageKey(t *testing.T) {
	assert.Equal(t, "Quiz::id=intro::pname=/decks/intro.yaml", StorageKey("intro", "/decks/intro.yaml", true))
	assert.Equal(t, "Quiz::id=intro::pname=*", StorageKey("intro", "/decks/intro.yaml", false))
	assert.Equal(t, "Quiz::id=intro::pname=*", StorageKey("intro", "", true))
}
