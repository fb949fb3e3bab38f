package pcfg

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// cykNode is the best derivation of a symbol over a span in the CYK table.
// Children point to the nodes of the cells it was built from, so the tree is
// only materialized once for the winner
type cykNode struct {
	symbol int
	rule   *cnfRule
	logp   float64

	// Position of the token for lexical nodes
	position int

	left  *cykNode
	right *cykNode
}

// cykCell keeps one node per symbol, in the order symbols were first derived
type cykCell struct {
	nodes []*cykNode
	best  map[int]int
}

func newCYKCell() *cykCell {
	return &cykCell{best: map[int]int{}}
}

// offer keeps node if it beats the current best of its symbol. Ties keep the
// node found first
func (c *cykCell) offer(node *cykNode) bool {
	if at, ok := c.best[node.symbol]; ok {
		if node.logp <= c.nodes[at].logp {
			return false
		}
		c.nodes[at] = node
		return true
	}
	c.best[node.symbol] = len(c.nodes)
	c.nodes = append(c.nodes, node)
	return true
}

func (c *cykCell) get(symbol int) *cykNode {
	if at, ok := c.best[symbol]; ok {
		return c.nodes[at]
	}
	return nil
}

// nodePool is the pool that allocates and stores cykNode
const poolBatchSize = 4096

type nodePool struct {
	nodes  [][]cykNode
	row    int
	column int
}

// newNodePool create a new instance of nodePool
func newNodePool() *nodePool {
	pool := &nodePool{
		nodes:  [][]cykNode{make([]cykNode, poolBatchSize)},
		row:    0,
		column: 0,
	}
	return pool
}

// Get allocates a new cykNode from pool
func (pool *nodePool) Get() *cykNode {
	node := &pool.nodes[pool.row][pool.column]

	pool.column++
	if pool.column >= poolBatchSize {
		pool.nodes = append(pool.nodes, make([]cykNode, poolBatchSize))
		pool.row++
		pool.column = 0
	}
	return node
}

// closeUnary applies unary rules A -> B inside a cell until no derivation
// improves. Probabilities never exceed one, so cycles cannot improve forever
func closeUnary(grammar *cnfGrammar, cell *cykCell, pool *nodePool) {
	for changed := true; changed; {
		changed = false
		for _, rule := range grammar.UnaryRules {
			child := cell.get(rule.FirstTarget)
			if child == nil {
				continue
			}
			logp := rule.LogProb + child.logp
			if current := cell.get(rule.Source); current != nil && logp <= current.logp {
				continue
			}
			node := pool.Get()
			node.symbol = rule.Source
			node.rule = rule
			node.logp = logp
			node.left = child
			if cell.offer(node) {
				changed = true
			}
		}
	}
}

// constructParsingTree materializes the tree below node
func constructParsingTree(grammar *cnfGrammar, node *cykNode, query []string) *Node {
	treeNode := &Node{Symbol: grammar.Symbols[node.symbol]}
	if node.left == nil {
		// Lexical node, the token is its only child
		treeNode.Children = []*Node{NewLeaf(query[node.position])}
		return treeNode
	}
	treeNode.Children = []*Node{constructParsingTree(grammar, node.left, query)}
	if node.right != nil {
		treeNode.Children = append(treeNode.Children, constructParsingTree(grammar, node.right, query))
	}
	return treeNode
}

// printRow prints a row in CYK table for debugging
func printRow(grammar *cnfGrammar, length int, row []*cykCell) {
	var b strings.Builder
	fmt.Fprintf(&b, "span %d:", length)
	for i, cell := range row {
		nodeReprs := []string{}
		for _, node := range cell.nodes {
			nodeReprs = append(nodeReprs, grammar.Symbols[node.symbol].String())
		}
		fmt.Fprintf(&b, " [%d: %s]", i, strings.Join(nodeReprs, " "))
	}
	glog.Info(b.String())
}

// CYK parses query using the Viterbi variant of the CKY algorithm and returns
// the most probable tree rooted at the start symbol, in binarized form, with
// its log probability. Tokens without any lexical rule are matched by UNK
// when fallback is set. ctx is checked once per span length
func CYK(ctx context.Context, g *Grammar, query []string, fallback bool) (*Node, float64, error) {
	if g == nil || g.cnf == nil {
		return nil, 0, errors.WithStack(ErrGrammarEmpty)
	}
	if len(query) == 0 {
		return nil, 0, errors.Wrap(ErrNoParse, "empty sentence")
	}
	grammar := g.cnf
	if glog.V(2) {
		glog.Infof("CYK: %d tokens", len(query))
	}
	table := make([][]*cykCell, len(query)+1)
	pool := newNodePool()

	// Row 1: apply all terminal rules
	table[1] = make([]*cykCell, len(query))
	for i, tok := range query {
		cell := newCYKCell()
		rules := grammar.TerminalRules[tok]
		for _, rule := range rules {
			node := pool.Get()
			node.symbol = rule.Source
			node.rule = rule
			node.logp = rule.LogProb
			node.position = i
			cell.offer(node)
		}
		if len(rules) == 0 && fallback && grammar.Unknown >= 0 && !math.IsInf(grammar.UnknownLogProb, -1) {
			// Never seen, not even by smoothing: treat it like any unknown word
			node := pool.Get()
			node.symbol = grammar.Unknown
			node.logp = grammar.UnknownLogProb
			node.position = i
			cell.offer(node)
		}
		closeUnary(grammar, cell, pool)
		if len(cell.nodes) == 0 {
			return nil, 0, errors.Wrapf(ErrNoParse, "no production for token %q at %d", tok, i)
		}
		table[1][i] = cell
	}
	if glog.V(2) {
		printRow(grammar, 1, table[1])
	}

	// Row 2 to row n: apply binary rules
	// Length of span
	for length := 2; length <= len(query); length++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, errors.Wrapf(err, "CYK stopped at span length %d", length)
		}
		columns := len(query) - length + 1
		table[length] = make([]*cykCell, columns)
		// Start of span
		for start := 0; start < columns; start++ {
			cell := newCYKCell()
			// Partition of span
			for partition := 1; partition < length; partition++ {
				leftCell := table[partition][start]
				rightCell := table[length-partition][start+partition]
				for _, left := range leftCell.nodes {
					rightRules, ok := grammar.Rules[left.symbol]
					if !ok {
						continue
					}
					for _, right := range rightCell.nodes {
						rules, ok := rightRules[right.symbol]
						if !ok {
							continue
						}
						// Ok, there are some rules A -> BC that B == left and
						// C == right
						for _, rule := range rules {
							logp := rule.LogProb + left.logp + right.logp
							if current := cell.get(rule.Source); current != nil && logp <= current.logp {
								continue
							}
							node := pool.Get()
							node.symbol = rule.Source
							node.rule = rule
							node.logp = logp
							node.left = left
							node.right = right
							cell.offer(node)
						}
					}
				}
			}
			closeUnary(grammar, cell, pool)
			table[length][start] = cell
		}
		if glog.V(2) {
			printRow(grammar, length, table[length])
		}
	}

	root := table[len(query)][0].get(grammar.Start)
	if root == nil {
		// root == nil means query didn't match grammar
		return nil, 0, errors.Wrapf(ErrNoParse, "no %s over %d tokens", grammar.Symbols[grammar.Start], len(query))
	}
	return constructParsingTree(grammar, root, query), root.logp, nil
}
