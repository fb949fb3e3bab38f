// Package treebank reads and writes Penn Treebank style bracketed trees
//
//	( (S (NP-SBJ (NNP Pierre) (NNP Vinken)) (VP (VBD joined))) )
package treebank

import (
	"bufio"
	"io"
	"os"
	"strings"
	"unicode"

	pcfg "github.com/ling0322/treepcfg"
	"github.com/pkg/errors"
)

// NoneLabel marks empty elements such as traces
const NoneLabel = "-NONE-"

// Options controls how trees are read
type Options struct {
	// Remove -NONE- elements and the constituents left empty by them
	StripNone bool
}

type tokenKind int

const (
	openParen tokenKind = iota
	closeParen
	atom
)

type token struct {
	kind tokenKind
	text string
	line int
}

// scanner splits bracketed text into parentheses and atoms
type scanner struct {
	r    *bufio.Reader
	line int
	peek *token
}

func newScanner(r io.Reader) *scanner {
	return &scanner{r: bufio.NewReader(r), line: 1}
}

func (s *scanner) next() (*token, error) {
	if s.peek != nil {
		t := s.peek
		s.peek = nil
		return t, nil
	}
	for {
		c, _, err := s.r.ReadRune()
		if err != nil {
			return nil, err
		}
		switch {
		case c == '\n':
			s.line++
		case unicode.IsSpace(c):
		case c == '(':
			return &token{kind: openParen, line: s.line}, nil
		case c == ')':
			return &token{kind: closeParen, line: s.line}, nil
		default:
			var b strings.Builder
			b.WriteRune(c)
			for {
				c, _, err = s.r.ReadRune()
				if err == io.EOF {
					break
				}
				if err != nil {
					return nil, err
				}
				if c == '(' || c == ')' || unicode.IsSpace(c) {
					s.r.UnreadRune()
					break
				}
				b.WriteRune(c)
			}
			return &token{kind: atom, text: b.String(), line: s.line}, nil
		}
	}
}

func (s *scanner) unread(t *token) {
	s.peek = t
}

// Reader reads trees one at a time
type Reader struct {
	s    *scanner
	opts Options
}

// NewReader creates a Reader over r
func NewReader(r io.Reader, opts Options) *Reader {
	return &Reader{s: newScanner(r), opts: opts}
}

// Next returns the next tree, or io.EOF when there is none left. Trees
// stripped down to nothing are skipped
func (r *Reader) Next() (*pcfg.Node, error) {
	for {
		t, err := r.s.next()
		if err != nil {
			return nil, err
		}
		if t.kind != openParen {
			return nil, errors.Wrapf(pcfg.ErrSyntax, "line %d: tree should start with '('", t.line)
		}
		tree, err := r.readNode(t.line)
		if err != nil {
			return nil, err
		}
		tree = unwrapRoot(tree)
		if r.opts.StripNone {
			tree = stripNone(tree)
		}
		if tree != nil {
			return tree, nil
		}
	}
}

// readNode reads a node after its opening parenthesis
func (r *Reader) readNode(line int) (*pcfg.Node, error) {
	node := &pcfg.Node{Symbol: pcfg.NonterminalSymbol("")}
	t, err := r.s.next()
	if err != nil {
		return nil, unexpected(err, line)
	}
	if t.kind == atom {
		node.Symbol = pcfg.NonterminalSymbol(t.text)
	} else {
		r.s.unread(t)
	}

	for {
		t, err := r.s.next()
		if err != nil {
			return nil, unexpected(err, line)
		}
		switch t.kind {
		case closeParen:
			if len(node.Children) == 0 {
				return nil, errors.Wrapf(pcfg.ErrSyntax, "line %d: empty constituent %q", t.line, node.Symbol.Label)
			}
			return node, nil
		case openParen:
			child, err := r.readNode(t.line)
			if err != nil {
				return nil, err
			}
			node.Children = append(node.Children, child)
		case atom:
			node.Children = append(node.Children, pcfg.NewLeaf(t.text))
		}
	}
}

func unexpected(err error, line int) error {
	if err == io.EOF {
		return errors.Wrapf(pcfg.ErrSyntax, "line %d: unbalanced parentheses", line)
	}
	return errors.WithStack(err)
}

// unwrapRoot removes the unlabeled bracket around treebank trees
func unwrapRoot(tree *pcfg.Node) *pcfg.Node {
	for tree.Symbol.Label == "" && len(tree.Children) == 1 && !tree.Children[0].IsLeaf() {
		tree = tree.Children[0]
	}
	return tree
}

// stripNone returns tree without -NONE- elements, nil when nothing is left
func stripNone(tree *pcfg.Node) *pcfg.Node {
	if tree.IsLeaf() {
		return tree
	}
	if tree.Symbol.Label == NoneLabel {
		return nil
	}
	stripped := &pcfg.Node{Symbol: tree.Symbol}
	for _, child := range tree.Children {
		if child = stripNone(child); child != nil {
			stripped.Children = append(stripped.Children, child)
		}
	}
	if len(stripped.Children) == 0 {
		return nil
	}
	return stripped
}

// Read reads all trees from r
func Read(r io.Reader, opts Options) ([]*pcfg.Node, error) {
	reader := NewReader(r, opts)
	trees := []*pcfg.Node{}
	for {
		tree, err := reader.Next()
		if err == io.EOF {
			return trees, nil
		}
		if err != nil {
			return nil, err
		}
		trees = append(trees, tree)
	}
}

// ReadString reads all trees in text
func ReadString(text string, opts Options) ([]*pcfg.Node, error) {
	return Read(strings.NewReader(text), opts)
}

// ParseTree parses exactly one bracketed tree
func ParseTree(text string) (*pcfg.Node, error) {
	trees, err := ReadString(text, Options{})
	if err != nil {
		return nil, err
	}
	if len(trees) != 1 {
		return nil, errors.Wrapf(pcfg.ErrSyntax, "one tree expected, got %d", len(trees))
	}
	return trees[0], nil
}

// ReadFile reads all trees of a file
func ReadFile(path string, opts Options) ([]*pcfg.Node, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer fd.Close()

	trees, err := Read(fd, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return trees, nil
}

// ReadSentences reads one whitespace-tokenized sentence per line, skipping
// blank lines
func ReadSentences(r io.Reader) ([][]string, error) {
	sentences := [][]string{}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 1024*1024)
	for s.Scan() {
		if fields := strings.Fields(s.Text()); len(fields) > 0 {
			sentences = append(sentences, fields)
		}
	}
	if err := s.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	return sentences, nil
}
