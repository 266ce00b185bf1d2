package search

import (
	"regexp"
	"strings"
)

// booleanTokens are the characters that classify a term as a boolean-mode
// full-text query instead of a natural-language one.
const booleanTokens = `"()+-<>~*`

// Predicates carries the three matching strategies derived from one
// normalized term: a word-boundary regexp for codes and names, a compacted
// regexp for barcode fields, and an FTS5 MATCH expression for free text.
// No single strategy covers all entity classes; catalog codes are exact
// tokens, descriptions are free text, and UPCs have no delimiters.
type Predicates struct {
	// Term is the normalized query the predicates were built from.
	Term string

	// Boolean reports boolean-mode classification. It only selects how
	// the MATCH expression is built; scoring stays with the FTS engine.
	Boolean bool

	// Match is the FTS5 expression without a column filter. Empty when
	// the term contains nothing the full-text engine can match.
	Match string

	// WordBoundary anchors the term at a token boundary, case-insensitive.
	WordBoundary string

	// UPC is WordBoundary over the term with interior whitespace removed.
	UPC string
}

// BuildPredicates derives all matching predicates for a normalized term.
func BuildPredicates(term string) Predicates {
	p := Predicates{Term: term}
	p.Boolean = strings.ContainsAny(term, booleanTokens)
	if p.Boolean {
		p.Match = booleanQuery(term)
	} else {
		p.Match = phraseQuery(term)
	}

	// Plus signs survive URL decoding when a term arrives already encoded;
	// they stand for spaces as far as boundary matching is concerned.
	spaced := strings.ReplaceAll(term, "+", " ")
	p.WordBoundary = `(?i)\b` + regexp.QuoteMeta(spaced)

	compact := strings.Join(strings.Fields(strings.ReplaceAll(term, "+", " ")), "")
	p.UPC = `(?i)\b` + regexp.QuoteMeta(compact)

	return p
}

// ColumnFilter scopes an FTS5 expression to a set of columns
// ("title", "name description", ...).
func ColumnFilter(columns, match string) string {
	return "{" + columns + "} : (" + match + ")"
}

// phraseQuery builds the natural-language MATCH expression: every token is
// quoted as a phrase so FTS5 syntax characters in user input stay literal.
// Adjacent phrases are implicitly ANDed.
func phraseQuery(term string) string {
	fields := strings.Fields(term)
	quoted := make([]string, 0, len(fields))
	for _, f := range fields {
		quoted = append(quoted, quotePhrase(f))
	}
	return strings.Join(quoted, " ")
}

// booleanQuery maps the storefront operator set onto FTS5 syntax: quoted
// phrases stay phrases, a leading + is the implicit AND, a leading - becomes
// a NOT chain, a trailing * survives as the prefix operator. Grouping parens
// and the relevance-tweak operators < > ~ have no FTS5 counterpart and are
// dropped. Tokens with interior punctuation are quoted so the tokenizer
// treats them as phrases.
func booleanQuery(term string) string {
	var include, exclude []string

	for _, tok := range splitBooleanTokens(term) {
		negate := strings.HasPrefix(tok.text, "-")
		text := strings.TrimLeft(tok.text, "+-<>~")
		prefix := false
		if !tok.phrase {
			if strings.HasSuffix(text, "*") {
				prefix = true
			}
			text = strings.Trim(text, "*<>~")
		}
		if text == "" {
			continue
		}
		quoted := quotePhrase(text)
		if prefix {
			quoted += "*"
		}
		if negate && !tok.phrase {
			exclude = append(exclude, quoted)
		} else {
			include = append(include, quoted)
		}
	}

	if len(include) == 0 {
		// Pure exclusions match nothing useful through full text; the
		// regexp predicates still get their chance.
		return ""
	}

	expr := strings.Join(include, " ")
	for _, ex := range exclude {
		expr += " NOT " + ex
	}
	return expr
}

type booleanToken struct {
	text   string
	phrase bool
}

// splitBooleanTokens splits a boolean-mode term into quoted phrases and bare
// words, treating parens as plain delimiters.
func splitBooleanTokens(term string) []booleanToken {
	var tokens []booleanToken
	var current strings.Builder
	inPhrase := false

	flush := func(phrase bool) {
		if current.Len() > 0 || phrase {
			tokens = append(tokens, booleanToken{text: current.String(), phrase: phrase})
		}
		current.Reset()
	}

	for _, r := range term {
		switch {
		case r == '"':
			if inPhrase {
				flush(true)
				inPhrase = false
			} else {
				flush(false)
				inPhrase = true
			}
		case !inPhrase && (r == ' ' || r == '(' || r == ')'):
			flush(false)
		default:
			current.WriteRune(r)
		}
	}
	flush(inPhrase)

	return tokens
}

func quotePhrase(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
