package search

import (
	"regexp"
	"testing"
)

func TestBuildPredicatesClassification(t *testing.T) {
	tests := []struct {
		term    string
		boolean bool
	}{
		{"socket wrench", false},
		{"wrench", false},
		{`"socket wrench"`, true},
		{"+socket -metric", true},
		{"wrench*", true},
		{"chums-hat", true},
		{"(socket) wrench", true},
		{"~socket", true},
		{"a < b", true},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			p := BuildPredicates(tt.term)
			if p.Boolean != tt.boolean {
				t.Errorf("BuildPredicates(%q).Boolean = %v, want %v", tt.term, p.Boolean, tt.boolean)
			}
		})
	}
}

func TestBuildPredicatesNaturalMatch(t *testing.T) {
	p := BuildPredicates("socket wrench")
	want := `"socket" "wrench"`
	if p.Match != want {
		t.Errorf("Match = %q, want %q", p.Match, want)
	}
}

func TestBuildPredicatesBooleanMatch(t *testing.T) {
	tests := []struct {
		name string
		term string
		want string
	}{
		{"hyphenated word becomes phrase", "chums-hat", `"chums-hat"`},
		{"required words", "+socket +wrench", `"socket" "wrench"`},
		{"exclusion becomes NOT", "socket -metric", `"socket" NOT "metric"`},
		{"quoted phrase survives", `"socket wrench" set`, `"socket wrench" "set"`},
		{"prefix operator survives", "wren*", `"wren"*`},
		{"parens dropped", "(socket wrench)", `"socket" "wrench"`},
		{"pure exclusion yields empty", "-metric", ""},
		{"relevance tweaks stripped", ">socket ~wrench", `"socket" "wrench"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := BuildPredicates(tt.term)
			if p.Match != tt.want {
				t.Errorf("BuildPredicates(%q).Match = %q, want %q", tt.term, p.Match, tt.want)
			}
		})
	}
}

func TestWordBoundaryPredicate(t *testing.T) {
	p := BuildPredicates("WR-100X")
	re, err := regexp.Compile(p.WordBoundary)
	if err != nil {
		t.Fatalf("WordBoundary does not compile: %v", err)
	}

	if !re.MatchString("model WR-100X deluxe") {
		t.Error("expected boundary match on exact model code")
	}
	if !re.MatchString("wr-100x") {
		t.Error("expected case-insensitive match")
	}
	if re.MatchString("XWR-100X") {
		t.Error("matched mid-word, boundary anchor missing")
	}
}

func TestWordBoundaryPlusAsSpace(t *testing.T) {
	p := BuildPredicates("socket+wrench")
	re, err := regexp.Compile(p.WordBoundary)
	if err != nil {
		t.Fatalf("WordBoundary does not compile: %v", err)
	}
	if !re.MatchString("the socket wrench set") {
		t.Error("expected + in term to match a space")
	}
}

func TestUPCPredicate(t *testing.T) {
	p := BuildPredicates("0 12345 67890 5")
	re, err := regexp.Compile(p.UPC)
	if err != nil {
		t.Fatalf("UPC does not compile: %v", err)
	}
	if !re.MatchString("012345678905") {
		t.Error("expected compacted UPC to match the digit run")
	}
	if re.MatchString("90123456789050") {
		t.Error("matched inside a longer digit run")
	}
}

func TestColumnFilter(t *testing.T) {
	got := ColumnFilter("name description", `"wrench"`)
	want := `{name description} : ("wrench")`
	if got != want {
		t.Errorf("ColumnFilter = %q, want %q", got, want)
	}
}

func TestQuotePhraseEscapesQuotes(t *testing.T) {
	got := quotePhrase(`3" hose`)
	want := `"3"" hose"`
	if got != want {
		t.Errorf("quotePhrase = %q, want %q", got, want)
	}
}
