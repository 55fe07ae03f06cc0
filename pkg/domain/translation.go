package domain

import (
	"fmt"
	"strings"
)

// WordGloss is one lexical unit of a translation.
// It has no identity beyond its position in TranslationResult.Words.
type WordGloss struct {
	JP      string `json:"jp" mapstructure:"jp"`
	Romaji  string `json:"romaji" mapstructure:"romaji"`
	Meaning string `json:"meaning" mapstructure:"meaning"`
	Grammar string `json:"grammar" mapstructure:"grammar"`
}

// TranslationResult is the structured reply produced by the gateway.
// It is treated as immutable once returned.
type TranslationResult struct {
	Japanese       string      `json:"japanese" jsonschema_description:"Natural Japanese translation of the source text"`
	Words          []WordGloss `json:"words" jsonschema_description:"Word-by-word breakdown of the translation"`
	GrammarSummary string      `json:"grammarSummary" jsonschema_description:"Short structural summary of the sentence"`
}

// TranslateRequest is the body accepted by the translation endpoint.
type TranslateRequest struct {
	Text string `json:"text" mapstructure:"text"`
}

// Validate checks the invariants of a parsed result: the translation is
// non-empty and every gloss carries a surface form.
// A nil Words slice is normalized to an empty one.
func (r *TranslationResult) Validate() error {
	if strings.TrimSpace(r.Japanese) == "" {
		return fmt.Errorf("missing japanese translation")
	}
	if r.Words == nil {
		r.Words = []WordGloss{}
	}
	for i, w := range r.Words {
		if strings.TrimSpace(w.JP) == "" {
			return fmt.Errorf("word %d: missing surface form", i)
		}
	}
	return nil
}
