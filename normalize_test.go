package pcfg

import (
	"testing"
)

var normalizeTrees = []string{
	dogBarks,
	"(S (NP (DT the) (JJ big) (JJ old) (NN dog)) (VP (V sat)))",
	"(S (X (Y (Z (NP (N a)) (VP (V b))))) (VP (V c) (NP (DT the) (NN d)) (PP (P on) (NP (N e))) (ADV f)))",
	"(S (A (B (C (D (N x))))) (E (F (G (V y)))))",
	"(S (W a) (X b) (Y c) (Z d) (V e) (U f))",
	"(ROOT (S (NP (N dog)) (VP (V barks))))",
}

func TestCollapseUnary(t *testing.T) {
	tree := readTree(t, "(S (VP (S (NP (N dog)) (VP (V barks)))))")
	collapsed := CollapseUnary(tree, DefaultNormalizeOptions())
	expected := "(S (VP+S (NP (N dog)) (VP (V barks))))"
	if collapsed.Bracketed() != expected {
		t.Fatalf("'%s' != '%s'", collapsed.Bracketed(), expected)
	}
	if tree.Bracketed() != "(S (VP (S (NP (N dog)) (VP (V barks)))))" {
		t.Fatal("CollapseUnary modified its input")
	}

	// Preterminals stay in place unless asked for
	collapsed = CollapseUnary(readTree(t, "(S (A (B (N x))) (V y))"), DefaultNormalizeOptions())
	if collapsed.Bracketed() != "(S (A+B (N x)) (V y))" {
		t.Fatalf("unexpected %s", collapsed.Bracketed())
	}
	collapsed = CollapseUnary(readTree(t, "(S (A (B (N x))) (V y))"), NormalizeOptions{CollapsePOS: true})
	if collapsed.Bracketed() != "(S (A+B+N x) (V y))" {
		t.Fatalf("unexpected %s", collapsed.Bracketed())
	}

	// The root keeps its label unless asked for
	collapsed = CollapseUnary(readTree(t, "(ROOT (S (NP (N a)) (V b)))"), NormalizeOptions{CollapseRoot: true})
	if collapsed.Symbol.Label != "ROOT+S" {
		t.Fatalf("'%s' != 'ROOT+S'", collapsed.Symbol.Label)
	}
}

func TestBinarize(t *testing.T) {
	tree := readTree(t, "(A (B b) (C c) (D d) (E e))")
	binarized := Binarize(tree, 2)
	expected := "(A (B b) (A|<C-D> (C c) (A|<D-E> (D d) (E e))))"
	if binarized.Bracketed() != expected {
		t.Fatalf("'%s' != '%s'", binarized.Bracketed(), expected)
	}
	if !binarized.Children[1].Symbol.IsSynthetic() {
		t.Fatal("intermediate nodes should be synthetic")
	}

	// Markov order bounds the labels, unbounded keeps every sibling
	tree = readTree(t, "(A (B b) (C c) (D d) (E e) (F f))")
	binarized = Binarize(tree, 1)
	expected = "(A (B b) (A|<C> (C c) (A|<D> (D d) (A|<E> (E e) (F f)))))"
	if binarized.Bracketed() != expected {
		t.Fatalf("'%s' != '%s'", binarized.Bracketed(), expected)
	}
	binarized = Binarize(tree, 0)
	if binarized.Children[1].Symbol.Label != "A|<C-D-E-F>" {
		t.Fatalf("unexpected %s", binarized.Children[1].Symbol.Label)
	}

	// Nothing to do within arity bounds
	tree = readTree(t, dogBarks)
	if !Binarize(tree, 2).Equal(tree) {
		t.Fatal("binary tree should be unchanged")
	}
}

func TestNormalizeRoundTrip(t *testing.T) {
	opts := []NormalizeOptions{
		DefaultNormalizeOptions(),
		{MarkovOrder: 1},
		{MarkovOrder: 0, CollapseRoot: true},
		{MarkovOrder: 2, CollapsePOS: true, CollapseRoot: true},
	}
	for _, text := range normalizeTrees {
		tree := readTree(t, text)
		for _, opt := range opts {
			collapsed := CollapseUnary(tree, opt)
			if expanded := ExpandUnary(collapsed); !expanded.Equal(tree) {
				t.Fatalf("ExpandUnary(CollapseUnary(%s)) = %s", text, expanded.Bracketed())
			}
			if debinarized := Debinarize(Binarize(tree, opt.MarkovOrder)); !debinarized.Equal(tree) {
				t.Fatalf("Debinarize(Binarize(%s)) = %s", text, debinarized.Bracketed())
			}

			normalized, err := Normalize(tree, opt)
			if err != nil {
				t.Fatal(err)
			}
			checkArity(t, normalized)
			if denormalized := Denormalize(normalized); !denormalized.Equal(tree) {
				t.Fatalf("Denormalize(Normalize(%s)) = %s", text, denormalized.Bracketed())
			}
		}
	}
}

// checkArity verifies a normalized tree has at most two children per node
func checkArity(t *testing.T, n *Node) {
	t.Helper()
	if len(n.Children) > 2 {
		t.Fatalf("%s has %d children", n.Symbol, len(n.Children))
	}
	for _, child := range n.Children {
		checkArity(t, child)
	}
}

func TestNormalizeReservedLabels(t *testing.T) {
	for _, text := range []string{
		"(S (A+B (N x)) (V y))",
		"(S (NP|<N> (N x)) (V y))",
	} {
		_, err := Normalize(readTree(t, text), DefaultNormalizeOptions())
		checkCause(t, err, ErrReservedLabel)
	}
}
