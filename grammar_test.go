package pcfg

import (
	"bytes"
	"testing"
)

const toyGrammar = `
; toy grammar
;!start: S
S ::= NP VP ; 0.9 | VP ; 0.1
NP ::= DT NN ; 0.6 | "it" ; 0.4
VP ::= V NP ; 0.7 | V ; 0.3
DT ::= "the"
NN ::= "dog" ; 0.5 | "cat" ; 0.5
V ::= "saw" ; 0.5 | "barks" ; 0.5
`

func TestParseGrammar(t *testing.T) {
	g := mustGrammar(t, toyGrammar)
	if g.Start() != NonterminalSymbol("S") {
		t.Fatalf("unexpected start %s", g.Start())
	}
	if g.Len() != 11 {
		t.Fatalf("11 productions expected, got %d", g.Len())
	}
	checkMass(t, g)

	if p := g.Probability(NonterminalSymbol("NP"), NonterminalSymbol("DT"), NonterminalSymbol("NN")); p != 0.6 {
		t.Fatalf("P(NP -> DT NN) = %g", p)
	}
	if p := g.Probability(NonterminalSymbol("NP"), TerminalSymbol("dog")); p != 0 {
		t.Fatalf("P(NP -> dog) = %g", p)
	}
	if !g.IsKnown("it") || g.IsKnown("NP") {
		t.Fatal("lexicon should only hold terminals")
	}
	lexicon := g.Lexicon()
	expected := []string{"barks", "cat", "dog", "it", "saw", "the"}
	if len(lexicon) != len(expected) {
		t.Fatalf("%v != %v", lexicon, expected)
	}
	for i := range expected {
		if lexicon[i] != expected[i] {
			t.Fatalf("%v != %v", lexicon, expected)
		}
	}
	if g.UnknownReachable() {
		t.Fatal("no UNK in toy grammar")
	}

	stats := g.Stats()
	if stats.Lexical != 6 || stats.Unary != 2 || stats.Binary != 3 || stats.Nonterminals != 6 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	// The printed grammar reads back the same
	again := mustGrammar(t, g.String())
	if again.String() != g.String() {
		t.Fatalf("'%s' != '%s'", again.String(), g.String())
	}
}

func TestParseGrammarStart(t *testing.T) {
	g := mustGrammar(t, ";!start: TOP\nTOP ::= \"x\"")
	if g.Start() != NonterminalSymbol("TOP") {
		t.Fatalf("unexpected start %s", g.Start())
	}
	if _, err := ParseGrammar(";!start: \"x\"\nTOP ::= \"x\""); err == nil {
		t.Fatal("terminal start should fail")
	}
	_, err := ParseGrammar("S ::= NP\nNP ::= \"x\"\nNP ::=")
	checkCause(t, err, ErrSyntax)
}

func TestNewGrammarErrors(t *testing.T) {
	s, np, vp := NonterminalSymbol("S"), NonterminalSymbol("NP"), NonterminalSymbol("VP")
	dog := TerminalSymbol("dog")

	_, err := NewGrammar(s, nil)
	checkCause(t, err, ErrGrammarEmpty)

	_, err = ParseGrammar("; nothing here")
	checkCause(t, err, ErrGrammarEmpty)

	// Mass of S is 0.9
	_, err = NewGrammar(s, []Production{
		{Left: s, Right: []Symbol{np}, Probability: 0.9},
		{Left: np, Right: []Symbol{dog}, Probability: 1},
	})
	checkCause(t, err, ErrProbabilityMass)

	_, err = NewGrammar(s, []Production{
		{Left: s, Right: []Symbol{np}, Probability: 1.5},
		{Left: np, Right: []Symbol{dog}, Probability: 1},
	})
	checkCause(t, err, ErrProbabilityMass)

	// VP is reachable but undefined
	_, err = NewGrammar(s, []Production{
		{Left: s, Right: []Symbol{np, vp}, Probability: 1},
		{Left: np, Right: []Symbol{dog}, Probability: 1},
	})
	checkCause(t, err, ErrUnknownSymbolReference)

	// Start must be defined
	_, err = NewGrammar(vp, []Production{
		{Left: np, Right: []Symbol{dog}, Probability: 1},
	})
	checkCause(t, err, ErrUnknownSymbolReference)

	_, err = NewGrammar(s, []Production{
		{Left: s, Right: []Symbol{np, np, np}, Probability: 1},
		{Left: np, Right: []Symbol{dog}, Probability: 1},
	})
	checkCause(t, err, ErrNotBinarized)

	_, err = NewGrammar(s, []Production{
		{Left: s, Right: []Symbol{np, dog}, Probability: 1},
		{Left: np, Right: []Symbol{dog}, Probability: 1},
	})
	checkCause(t, err, ErrNotBinarized)

	// Unreachable undefined symbols are fine
	_, err = NewGrammar(s, []Production{
		{Left: s, Right: []Symbol{np}, Probability: 1},
		{Left: np, Right: []Symbol{dog}, Probability: 1},
		{Left: vp, Right: []Symbol{NonterminalSymbol("V")}, Probability: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestNewGrammarMergesDuplicates(t *testing.T) {
	s, np := NonterminalSymbol("S"), NonterminalSymbol("NP")
	g, err := NewGrammar(s, []Production{
		{Left: s, Right: []Symbol{np}, Probability: 0.5},
		{Left: s, Right: []Symbol{np}, Probability: 0.5},
		{Left: np, Right: []Symbol{TerminalSymbol("dog")}, Probability: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	if g.Len() != 2 || g.Probability(s, np) != 1 {
		t.Fatalf("duplicates not merged: %s", g)
	}
}

func TestGrammarIsImmutable(t *testing.T) {
	g := mustGrammar(t, toyGrammar)
	productions := g.Productions()
	productions[0].Probability = 0.1
	productions[0].Right[0] = TerminalSymbol("x")
	if g.Productions()[0].Probability != 0.9 || g.Productions()[0].Right[0] != NonterminalSymbol("NP") {
		t.Fatal("grammar changed through a returned production")
	}
}

func TestSaveLoad(t *testing.T) {
	g := mustGrammar(t, toyGrammar)
	var buf bytes.Buffer
	if err := g.Save(&buf); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.String() != g.String() {
		t.Fatalf("'%s' != '%s'", loaded.String(), g.String())
	}

	if _, err := Load(bytes.NewBufferString("not a grammar")); err == nil {
		t.Fatal("garbage should not load")
	}
}
