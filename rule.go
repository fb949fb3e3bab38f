package pcfg

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Kind separates terminal symbols from nonterminal ones
type Kind uint8

const (
	// Terminal is a surface token
	Terminal Kind = iota

	// Nonterminal is a label from the treebank, possibly a collapsed unary
	// chain like "S+VP"
	Nonterminal

	// Synthetic is an intermediate nonterminal introduced by binarization,
	// like "NP|<JJ-NN>"
	Synthetic
)

// Labels with a special meaning
const (
	DefaultStartLabel = "S"
	UnknownLabel      = "UNK"

	chainSeparator   = "+"
	syntheticOpen    = "|<"
	syntheticClose   = ">"
	contextSeparator = "-"
)

// Symbol represents a symbol in PCFG production, both terminal and
// non-terminal. Symbols of different kinds never compare equal, even when
// their labels do.
type Symbol struct {
	Kind  Kind
	Label string
}

// UnknownSymbol is the nonterminal standing for tokens unseen in training
var UnknownSymbol = NonterminalSymbol(UnknownLabel)

// TerminalSymbol creates a terminal symbol from a token
func TerminalSymbol(token string) Symbol {
	return Symbol{Kind: Terminal, Label: token}
}

// NonterminalSymbol creates a nonterminal symbol from a label
func NonterminalSymbol(label string) Symbol {
	return Symbol{Kind: Nonterminal, Label: label}
}

// ChainSymbol creates the nonterminal for a collapsed unary chain
//     ["S", "VP"] -> S+VP
func ChainSymbol(labels []string) Symbol {
	return NonterminalSymbol(strings.Join(labels, chainSeparator))
}

// SyntheticSymbol creates a binarization intermediate of parent. context
// holds the labels of the siblings the intermediate still has to cover,
// already cut to the markov order
//     ("NP", ["JJ", "NN"]) -> NP|<JJ-NN>
func SyntheticSymbol(parent string, context []string) Symbol {
	return Symbol{
		Kind:  Synthetic,
		Label: parent + syntheticOpen + strings.Join(context, contextSeparator) + syntheticClose,
	}
}

// IsTerminal returns true for surface tokens
func (s Symbol) IsTerminal() bool {
	return s.Kind == Terminal
}

// IsSynthetic returns true for binarization intermediates
func (s Symbol) IsSynthetic() bool {
	return s.Kind == Synthetic
}

// Chain splits a collapsed unary chain back into its labels. Symbols that are
// not chains give a single element
func (s Symbol) Chain() []string {
	if s.Kind != Nonterminal {
		return []string{s.Label}
	}
	return strings.Split(s.Label, chainSeparator)
}

// Parent returns the label a synthetic symbol was derived from
func (s Symbol) Parent() string {
	if s.Kind != Synthetic {
		return s.Label
	}
	if i := strings.Index(s.Label, syntheticOpen); i >= 0 {
		return s.Label[:i]
	}
	return s.Label
}

// String returns terminals double-quoted and nonterminals as is
func (s Symbol) String() string {
	if s.Kind == Terminal {
		return strconv.Quote(s.Label)
	}
	return s.Label
}

// Production represents a PCFG production
type Production struct {
	Left        Symbol
	Right       []Symbol
	Probability float64
}

// IsBinary returns true if it's a binary production, like A -> B C
func (p *Production) IsBinary() bool {
	return len(p.Right) == 2
}

// IsUnary returns true if it's a unary production, like A -> B or A -> "b"
func (p *Production) IsUnary() bool {
	return len(p.Right) == 1
}

// IsLexical returns true if the production rewrites to a single terminal
func (p *Production) IsLexical() bool {
	return p.IsUnary() && p.Right[0].IsTerminal()
}

// Copy returns a deep copy of p
func (p *Production) Copy() Production {
	right := make([]Symbol, len(p.Right))
	copy(right, p.Right)
	return Production{Left: p.Left, Right: right, Probability: p.Probability}
}

// key identifies the left and right hand side of a production, ignoring its
// probability
func (p *Production) key() string {
	return productionKey(p.Left, p.Right)
}

func productionKey(left Symbol, right []Symbol) string {
	var b strings.Builder
	writeSymbol := func(s Symbol) {
		b.WriteByte(byte('0' + s.Kind))
		b.WriteString(s.Label)
		b.WriteByte(0)
	}
	writeSymbol(left)
	for _, s := range right {
		writeSymbol(s)
	}
	return b.String()
}

// String converts production to string format
//     NP ::= DT NN ; 0.25
func (p *Production) String() string {
	symbols := make([]string, 0, len(p.Right))
	for _, symbol := range p.Right {
		symbols = append(symbols, symbol.String())
	}
	return p.Left.String() + " ::= " + strings.Join(symbols, " ") +
		" ; " + strconv.FormatFloat(p.Probability, 'g', -1, 64)
}

// parseSymbol reads one symbol of the text format. Quoted fields are
// terminals, everything else nonterminals
func parseSymbol(field string) (Symbol, error) {
	if field[0] == '"' {
		token, err := strconv.Unquote(field)
		if err != nil {
			return Symbol{}, errors.Wrapf(ErrSyntax, "bad terminal %s", field)
		}
		return TerminalSymbol(token), nil
	}
	if strings.Contains(field, "\"") {
		return Symbol{}, errors.Wrapf(ErrSyntax, "unexpected '\"' in %s", field)
	}
	if i := strings.Index(field, syntheticOpen); i > 0 && strings.HasSuffix(field, syntheticClose) {
		return Symbol{Kind: Synthetic, Label: field}, nil
	}
	return NonterminalSymbol(field), nil
}

// scanFields splits text on whitespace, keeping double-quoted fields whole
func scanFields(text string) ([]string, error) {
	fields := []string{}
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '"':
			j := i + 1
			for j < len(text) && text[j] != '"' {
				if text[j] == '\\' {
					j++
				}
				j++
			}
			if j >= len(text) {
				return nil, errors.Wrapf(ErrSyntax, "unterminated quote in '%s'", text)
			}
			fields = append(fields, text[i:j+1])
			i = j + 1
		default:
			j := i
			for j < len(text) && text[j] != ' ' && text[j] != '\t' {
				j++
			}
			fields = append(fields, text[i:j])
			i = j
		}
	}
	return fields, nil
}

// ParseProduction parses productions from string
// The text would be like:
//     NP ::= DT NN ; 0.7 | "it" ; 0.3
// Then returns
//     [{NP, [DT, NN], 0.7}, {NP, ["it"], 0.3}]
// Alternatives are separated by a standalone '|', the weight follows a
// standalone ';' and defaults to 1.0
func ParseProduction(text string) (productions []Production, err error) {
	fields, err := scanFields(strings.TrimSpace(text))
	if err != nil {
		return nil, err
	}
	if len(fields) < 3 || fields[1] != "::=" {
		return nil, errors.Wrapf(ErrSyntax, "expected 'lhs ::= rhs' in '%s'", text)
	}

	// Left part
	left, err := parseSymbol(fields[0])
	if err != nil {
		return nil, errors.Wrapf(err, "in '%s'", text)
	}
	if left.IsTerminal() {
		return nil, errors.Wrapf(ErrSyntax, "'%s': terminal symbol in the left", text)
	}

	// Right part, one alternative at a time
	current := Production{Left: left, Probability: 1.0}
	weighted := false
	flush := func() error {
		if len(current.Right) == 0 {
			return errors.Wrapf(ErrSyntax, "empty alternative in '%s'", text)
		}
		productions = append(productions, current)
		current = Production{Left: left, Probability: 1.0}
		weighted = false
		return nil
	}
	rest := fields[2:]
	for i := 0; i < len(rest); i++ {
		switch field := rest[i]; field {
		case "|":
			if err := flush(); err != nil {
				return nil, err
			}
		case ";":
			if weighted || i+1 >= len(rest) {
				return nil, errors.Wrapf(ErrSyntax, "unexpected ';' token in '%s'", text)
			}
			i++
			weight, perr := strconv.ParseFloat(rest[i], 64)
			if perr != nil {
				return nil, errors.Wrapf(ErrSyntax, "float expected but '%s' found in '%s'", rest[i], text)
			}
			current.Probability = weight
			weighted = true
		default:
			if weighted {
				return nil, errors.Wrapf(ErrSyntax, "symbol '%s' after weight in '%s'", field, text)
			}
			symbol, serr := parseSymbol(field)
			if serr != nil {
				return nil, errors.Wrapf(serr, "in '%s'", text)
			}
			current.Right = append(current.Right, symbol)
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return productions, nil
}
