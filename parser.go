package pcfg

import (
	"context"
	"math"
	"runtime"
	"sync"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Parser is the struct for PCFG parsing. It only reads its grammar, so one
// Parser may serve many goroutines
type Parser struct {
	grammar         *Grammar
	maxTokens       int
	unknownFallback bool
}

// Option configures a Parser
type Option func(*Parser)

// WithMaxTokens rejects sentences longer than n tokens with
// ErrSentenceTooLong. n <= 0 means no limit
func WithMaxTokens(n int) Option {
	return func(p *Parser) {
		p.maxTokens = n
	}
}

// WithUnknownFallback sets whether tokens that no lexical production covers,
// not even an UNK one, are matched by UNK anyway. On by default
func WithUnknownFallback(fallback bool) Option {
	return func(p *Parser) {
		p.unknownFallback = fallback
	}
}

// NewParser creates a new instance of PCFG parser with grammar
func NewParser(grammar *Grammar, opts ...Option) (*Parser, error) {
	if grammar.Len() == 0 {
		return nil, errors.WithStack(ErrGrammarEmpty)
	}
	p := &Parser{grammar: grammar, unknownFallback: true}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Grammar returns the grammar of the parser
func (p *Parser) Grammar() *Grammar {
	return p.grammar
}

// Result is the most probable parse of a sentence
type Result struct {
	Tokens []string

	// Tree in the shape of the training trees
	Tree *Node

	// Tree as derived by the binarized grammar, UNK nodes included
	Binarized *Node

	// Natural log of the probability of the parse
	LogProb float64

	// Unknown[i] is set when token i was derived through UNK
	Unknown []bool
}

// Probability returns the probability of the parse
func (r *Result) Probability() float64 {
	return math.Exp(r.LogProb)
}

// Tagged returns the tokens with their predicted part-of-speech labels
func (r *Result) Tagged() []TaggedLeaf {
	return r.Tree.Tagged()
}

// UnknownCount returns how many tokens were derived through UNK
func (r *Result) UnknownCount() int {
	count := 0
	for _, unknown := range r.Unknown {
		if unknown {
			count++
		}
	}
	return count
}

// Parse parses query using the PCFG grammar. If query matches the grammar,
// returns the most probable tree. Otherwise the error is ErrNoParse
func (p *Parser) Parse(ctx context.Context, query []string) (*Result, error) {
	if p.maxTokens > 0 && len(query) > p.maxTokens {
		return nil, errors.Wrapf(ErrSentenceTooLong, "%d tokens, budget is %d", len(query), p.maxTokens)
	}
	binarized, logp, err := CYK(ctx, p.grammar, query, p.unknownFallback)
	if err != nil {
		return nil, err
	}

	unknown := make([]bool, len(query))
	for i, tagged := range binarized.Tagged() {
		unknown[i] = tagged.Label == UnknownLabel
	}
	return &Result{
		Tokens:    query,
		Tree:      Denormalize(dropUnknown(binarized)),
		Binarized: binarized,
		LogProb:   logp,
		Unknown:   unknown,
	}, nil
}

// dropUnknown replaces (N (UNK w)) with (N w), so that w is labeled by the
// nonterminal that rewrote to UNK
func dropUnknown(n *Node) *Node {
	if n.IsLeaf() {
		return &Node{Symbol: n.Symbol}
	}
	if len(n.Children) == 1 && n.Children[0].Symbol == UnknownSymbol && n.Children[0].IsPreterminal() {
		return &Node{Symbol: n.Symbol, Children: []*Node{NewLeaf(n.Children[0].Children[0].Symbol.Label)}}
	}
	dropped := &Node{Symbol: n.Symbol, Children: make([]*Node, len(n.Children))}
	for i, child := range n.Children {
		dropped.Children[i] = dropUnknown(child)
	}
	return dropped
}

// BatchResult is the outcome of one sentence of a batch
type BatchResult struct {
	Index  int
	Result *Result
	Err    error
}

// ParseBatch parses sentences concurrently with the given number of workers
// (all CPUs when workers <= 0). Sentence errors such as ErrNoParse are
// reported in their BatchResult and never stop the batch. The returned error
// is only set when ctx ends before the batch does
func (p *Parser) ParseBatch(ctx context.Context, sentences [][]string, workers int) ([]BatchResult, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(sentences) {
		workers = len(sentences)
	}

	results := make([]BatchResult, len(sentences))
	jobs := make(chan int, workers)
	var wg sync.WaitGroup

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				result, err := p.Parse(ctx, sentences[i])
				if err != nil && glog.V(1) {
					glog.Warningf("sentence %d: %v", i, err)
				}
				results[i] = BatchResult{Index: i, Result: result, Err: err}
			}
		}()
	}

	dispatched := len(sentences)
dispatch:
	for i := range sentences {
		select {
		case jobs <- i:
		case <-ctx.Done():
			dispatched = i
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	for i := dispatched; i < len(sentences); i++ {
		results[i] = BatchResult{Index: i, Err: errors.WithStack(ctx.Err())}
	}
	if err := ctx.Err(); err != nil {
		return results, errors.Wrap(err, "parse batch")
	}
	return results, nil
}
