package pcfg

import (
	"math"
)

// cnfRule stores a production of the grammar with all of its nonterminals
// represented by symbol-id
type cnfRule struct {
	// SymbolId in the left of rule
	Source int

	// Log probability of this rule
	LogProb float64

	// SymbolIds in the right of rule. SecondTarget is -1 for unary rules
	FirstTarget  int
	SecondTarget int
}

// cnfGrammar is the bottom-up index of a Grammar, built once: which rules
// yield this terminal, this nonterminal, this pair of nonterminals
type cnfGrammar struct {
	// Map from symbol to its id
	SymbolIds map[Symbol]int

	// Map from symbolId to symbol
	Symbols []Symbol

	// Map from terminal string to the rules rewriting to it
	TerminalRules map[string][]*cnfRule

	// Map from targets to rule. For example, rule: A -> BC. It maps (B, C) to
	// the rule itself
	Rules map[int]map[int][]*cnfRule

	// Unary nonterminal rules A -> B, children before parents where the
	// unary graph allows it
	UnaryRules []*cnfRule

	// Start symbol id
	Start int

	// Id of UNK, -1 when the grammar has no unknown-token productions
	Unknown int

	// Log probability of the most likely UNK -> token rule, used for tokens
	// the grammar has never seen
	UnknownLogProb float64
}

// newCNFGrammar indexes g by right-hand side
func newCNFGrammar(g *Grammar) *cnfGrammar {
	cnf := &cnfGrammar{
		SymbolIds:      map[Symbol]int{},
		Symbols:        []Symbol{},
		Rules:          map[int]map[int][]*cnfRule{},
		TerminalRules:  map[string][]*cnfRule{},
		Unknown:        -1,
		UnknownLogProb: math.Inf(-1),
	}
	for _, s := range g.nonterminals {
		cnf.getSymbolId(s)
	}
	cnf.Start = cnf.getSymbolId(g.start)

	unary := map[Symbol][]*cnfRule{}
	unaryGraph := NewDirectedGraph()
	for i := range g.productions {
		rule := cnf.addRule(&g.productions[i])
		if rule == nil {
			continue
		}
		p := &g.productions[i]
		unary[p.Left] = append(unary[p.Left], rule)
		unaryGraph.Add(p.Right[0], p.Left)
	}

	// Order unary rules so that B -> C comes before A -> B
	for _, s := range unaryGraph.TopologicalSort() {
		cnf.UnaryRules = append(cnf.UnaryRules, unary[s]...)
	}

	if id, ok := cnf.SymbolIds[UnknownSymbol]; ok {
		cnf.Unknown = id
		for _, at := range g.byLeft[UnknownSymbol] {
			p := &g.productions[at]
			if p.IsLexical() {
				cnf.UnknownLogProb = math.Max(cnf.UnknownLogProb, math.Log(p.Probability))
			}
		}
	}
	return cnf
}

// getSymbolId get the id of given symbol. If the symbol not exist in grammar
// insert a new one
func (g *cnfGrammar) getSymbolId(s Symbol) int {
	if symbolId, ok := g.SymbolIds[s]; ok {
		return symbolId
	}
	symbolId := len(g.Symbols)
	g.SymbolIds[s] = symbolId
	g.Symbols = append(g.Symbols, s)
	return symbolId
}

// addRule adds a production into the index. Unary nonterminal rules are
// returned to the caller for ordering instead
func (g *cnfGrammar) addRule(p *Production) *cnfRule {
	assert(
		p.IsBinary() || p.IsUnary(),
		"cnfGrammar.addRule: invalid rule")

	rule := &cnfRule{
		Source:       g.getSymbolId(p.Left),
		LogProb:      math.Log(p.Probability),
		SecondTarget: -1,
	}

	if p.IsLexical() {
		// It's a terminal rule, like NN -> "weather"
		terminal := p.Right[0].Label
		rule.FirstTarget = -1
		g.TerminalRules[terminal] = append(g.TerminalRules[terminal], rule)
		return nil
	}

	rule.FirstTarget = g.getSymbolId(p.Right[0])
	if p.IsUnary() {
		return rule
	}

	rule.SecondTarget = g.getSymbolId(p.Right[1])
	if _, ok := g.Rules[rule.FirstTarget]; !ok {
		g.Rules[rule.FirstTarget] = map[int][]*cnfRule{}
	}
	g.Rules[rule.FirstTarget][rule.SecondTarget] = append(
		g.Rules[rule.FirstTarget][rule.SecondTarget],
		rule)
	return nil
}
