package pcfg

import (
	"github.com/pkg/errors"
)

// Errors returned by grammar construction, parsing and evaluation. Callers
// match them with errors.Cause or errors.Is, since every site wraps them with
// context.
var (
	// ErrGrammarEmpty means there are no productions to parse with. It is
	// fatal for a whole run.
	ErrGrammarEmpty = errors.New("grammar has no productions")

	// ErrNoParse means a sentence has no derivation from the start symbol.
	// It only concerns that sentence; a batch carries on.
	ErrNoParse = errors.New("no parse")

	// ErrLeafMismatch means a predicted tree covers a different token
	// sequence than its gold tree.
	ErrLeafMismatch = errors.New("predicted leaves differ from gold leaves")

	// ErrUnknownSymbolReference means a production reachable from the start
	// symbol refers to a nonterminal that has no productions.
	ErrUnknownSymbolReference = errors.New("reference to undefined nonterminal")

	// ErrProbabilityMass means the probabilities of some left-hand side do
	// not sum to one, or a single probability lies outside (0, 1].
	ErrProbabilityMass = errors.New("malformed probability mass")

	// ErrNotBinarized means a production has more than two right-hand
	// symbols, or mixes terminals into a non-lexical right-hand side.
	ErrNotBinarized = errors.New("production is not binarized")

	// ErrReservedLabel means a tree label clashes with the characters used
	// to encode collapsed chains and binarization intermediates.
	ErrReservedLabel = errors.New("label uses a reserved character")

	// ErrAlreadySmoothed means the grammar already defines the unknown-token
	// nonterminal.
	ErrAlreadySmoothed = errors.New("grammar already has unknown-token productions")

	// ErrSentenceTooLong means a sentence exceeds the parser's token budget.
	ErrSentenceTooLong = errors.New("sentence exceeds token budget")

	// ErrSyntax is returned for malformed grammar text.
	ErrSyntax = errors.New("syntax error")
)
