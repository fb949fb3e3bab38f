package pcfg

import (
	"sort"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// MassTolerance is how far the probabilities of a left-hand side may drift
// from one
const MassTolerance = 1e-6

// Grammar is an immutable PCFG in binarized form. It is indexed by left-hand
// side for enumeration, and by right-hand side (see cnfGrammar) for the
// bottom-up lookups of the chart parser. A Grammar is safe for concurrent use
// once constructed
type Grammar struct {
	start        Symbol
	productions  []Production
	byLeft       map[Symbol][]int
	nonterminals []Symbol
	terminals    map[string]bool

	unknownReachable bool
	cnf              *cnfGrammar
}

// GrammarStats summarizes the size of a grammar
type GrammarStats struct {
	Productions  int
	Nonterminals int
	Synthetic    int
	Terminals    int
	Lexical      int
	Unary        int
	Binary       int
}

// NewGrammar validates productions and builds a grammar from them.
// Duplicate productions are merged by adding their probabilities
func NewGrammar(start Symbol, productions []Production) (*Grammar, error) {
	if len(productions) == 0 {
		return nil, errors.WithStack(ErrGrammarEmpty)
	}
	if start.IsTerminal() {
		return nil, errors.Wrapf(ErrSyntax, "start symbol %s is a terminal", start)
	}

	g := &Grammar{
		start:     start,
		byLeft:    map[Symbol][]int{},
		terminals: map[string]bool{},
	}

	merged := map[string]int{}
	for i := range productions {
		p := &productions[i]
		if err := checkProduction(p); err != nil {
			return nil, err
		}
		if at, ok := merged[p.key()]; ok {
			g.productions[at].Probability += p.Probability
			continue
		}
		merged[p.key()] = len(g.productions)
		if _, ok := g.byLeft[p.Left]; !ok {
			g.nonterminals = append(g.nonterminals, p.Left)
		}
		g.byLeft[p.Left] = append(g.byLeft[p.Left], len(g.productions))
		g.productions = append(g.productions, p.Copy())
		if p.IsLexical() {
			g.terminals[p.Right[0].Label] = true
		}
	}

	if err := g.checkMass(); err != nil {
		return nil, err
	}
	if err := g.checkReferences(); err != nil {
		return nil, err
	}

	g.cnf = newCNFGrammar(g)
	if glog.V(1) {
		stats := g.Stats()
		glog.Infof("grammar: %d productions, %d nonterminals (%d synthetic), %d terminals",
			stats.Productions, stats.Nonterminals, stats.Synthetic, stats.Terminals)
	}
	return g, nil
}

// checkProduction verifies the shape and probability of a single production
func checkProduction(p *Production) error {
	if p.Left.IsTerminal() {
		return errors.Wrapf(ErrSyntax, "%s: terminal symbol in the left", p.String())
	}
	if len(p.Right) == 0 || len(p.Right) > 2 {
		return errors.Wrapf(ErrNotBinarized, "%s: %d right-hand symbols", p.String(), len(p.Right))
	}
	if p.IsBinary() && (p.Right[0].IsTerminal() || p.Right[1].IsTerminal()) {
		return errors.Wrapf(ErrNotBinarized, "%s: terminal in a binary production", p.String())
	}
	if !(p.Probability > 0 && p.Probability <= 1) {
		return errors.Wrapf(ErrProbabilityMass, "%s: probability out of (0, 1]", p.String())
	}
	return nil
}

// checkMass makes sure that the probabilities from the same left-hand side
// sum to 1.0
func (g *Grammar) checkMass() error {
	for _, left := range g.nonterminals {
		weights := make([]float64, 0, len(g.byLeft[left]))
		for _, i := range g.byLeft[left] {
			weights = append(weights, g.productions[i].Probability)
		}
		if sum := floats.Sum(weights); !scalar.EqualWithinAbs(sum, 1.0, MassTolerance) {
			return errors.Wrapf(ErrProbabilityMass, "productions of %s sum to %g", left, sum)
		}
	}
	return nil
}

// symbolGraph returns the graph with an arc A -> X for every nonterminal X
// on the right of a production of A
func (g *Grammar) symbolGraph() *DirectedGraph {
	graph := NewDirectedGraph()
	for _, left := range g.nonterminals {
		graph.AddVertex(left)
	}
	for i := range g.productions {
		p := &g.productions[i]
		for _, s := range p.Right {
			if !s.IsTerminal() {
				graph.Add(p.Left, s)
			}
		}
	}
	return graph
}

// checkReferences rejects nonterminals reachable from the start symbol that
// have no productions
func (g *Grammar) checkReferences() error {
	if _, ok := g.byLeft[g.start]; !ok {
		return errors.Wrapf(ErrUnknownSymbolReference, "start symbol %s has no productions", g.start)
	}
	graph := g.symbolGraph()
	order := graph.DFS(g.start, map[Symbol]bool{})
	for _, s := range order {
		if _, ok := g.byLeft[s]; !ok {
			return errors.Wrapf(ErrUnknownSymbolReference, "%s has no productions", s)
		}
		if s == UnknownSymbol {
			g.unknownReachable = true
		}
	}
	if glog.V(1) {
		for _, component := range graph.StrongComponents() {
			glog.Infof("grammar: recursive nonterminals %v", component)
		}
	}
	return nil
}

// ParseGrammar parses grammar from text, one production line at a time. Lines
// starting with ';' are comments, except the ';!start:' directive which sets
// the start symbol (default S)
func ParseGrammar(grammarText string) (*Grammar, error) {
	start := NonterminalSymbol(DefaultStartLabel)
	productions := []Production{}
	lines := strings.Split(grammarText, "\n")
	for n, line := range lines {
		line = strings.TrimSpace(line)

		// Start command
		if strings.HasPrefix(line, ";!start:") {
			label := strings.TrimSpace(line[len(";!start:"):])
			symbol, err := parseSymbol(label)
			if label == "" || err != nil || symbol.IsTerminal() {
				return nil, errors.Wrapf(ErrSyntax, "line %d: unexpected start symbol '%s'", n+1, label)
			}
			start = symbol
			continue
		}

		// Comments
		if line == "" || line[0] == ';' {
			continue
		}

		// Parse this production
		parsed, err := ParseProduction(line)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", n+1)
		}
		productions = append(productions, parsed...)
	}
	return NewGrammar(start, productions)
}

// Start returns the start symbol
func (g *Grammar) Start() Symbol {
	return g.start
}

// Len returns the number of productions
func (g *Grammar) Len() int {
	if g == nil {
		return 0
	}
	return len(g.productions)
}

// Productions returns a copy of all productions in grammar order
func (g *Grammar) Productions() []Production {
	productions := make([]Production, len(g.productions))
	for i := range g.productions {
		productions[i] = g.productions[i].Copy()
	}
	return productions
}

// ProductionsFor returns a copy of the productions with left-hand side lhs
func (g *Grammar) ProductionsFor(lhs Symbol) []Production {
	indexes := g.byLeft[lhs]
	productions := make([]Production, len(indexes))
	for i, at := range indexes {
		productions[i] = g.productions[at].Copy()
	}
	return productions
}

// Probability returns the probability of lhs -> right, zero if the grammar
// has no such production
func (g *Grammar) Probability(lhs Symbol, right ...Symbol) float64 {
	key := productionKey(lhs, right)
	for _, at := range g.byLeft[lhs] {
		if g.productions[at].key() == key {
			return g.productions[at].Probability
		}
	}
	return 0
}

// Nonterminals returns every left-hand side in first-seen order
func (g *Grammar) Nonterminals() []Symbol {
	return append([]Symbol(nil), g.nonterminals...)
}

// IsKnown returns whether some lexical production rewrites to token
func (g *Grammar) IsKnown(token string) bool {
	return g.terminals[token]
}

// Lexicon returns the sorted terminals of the grammar
func (g *Grammar) Lexicon() []string {
	lexicon := make([]string, 0, len(g.terminals))
	for token := range g.terminals {
		lexicon = append(lexicon, token)
	}
	sort.Strings(lexicon)
	return lexicon
}

// UnknownReachable returns whether some N -> UNK production is reachable from
// the start symbol
func (g *Grammar) UnknownReachable() bool {
	return g.unknownReachable
}

// Stats counts the productions and symbols of the grammar
func (g *Grammar) Stats() GrammarStats {
	stats := GrammarStats{
		Productions:  len(g.productions),
		Nonterminals: len(g.nonterminals),
		Terminals:    len(g.terminals),
	}
	for _, s := range g.nonterminals {
		if s.IsSynthetic() {
			stats.Synthetic++
		}
	}
	for i := range g.productions {
		switch p := &g.productions[i]; {
		case p.IsLexical():
			stats.Lexical++
		case p.IsUnary():
			stats.Unary++
		default:
			stats.Binary++
		}
	}
	return stats
}

// String prints grammar in the text format read by ParseGrammar
func (g *Grammar) String() string {
	var b strings.Builder
	b.WriteString(";!start: " + g.start.String() + "\n")
	for _, left := range g.nonterminals {
		for _, at := range g.byLeft[left] {
			b.WriteString(g.productions[at].String())
			b.WriteByte('\n')
		}
	}
	return b.String()
}
