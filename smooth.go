package pcfg

import (
	"sort"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// MissingWords returns the sorted set of tokens in sentences that no lexical
// production of g rewrites to
func MissingWords(g *Grammar, sentences [][]string) []string {
	seen := map[string]bool{}
	missing := []string{}
	for _, sentence := range sentences {
		for _, token := range sentence {
			if seen[token] || g.IsKnown(token) {
				continue
			}
			seen[token] = true
			missing = append(missing, token)
		}
	}
	sort.Strings(missing)
	return missing
}

// Smooth extends g with the unknown-token nonterminal UNK for the words of
// vocabulary that g has never seen. With M the missing words:
//   - UNK -> w is added for every w in M, with probability 1/|M|
//   - every nonterminal N with k lexical productions gets N -> UNK with
//     probability 1/(k+1), and its other productions are scaled by k/(k+1)
// so the productions of every nonterminal still sum to one. g itself is
// returned when vocabulary has no unseen word
func Smooth(g *Grammar, vocabulary []string) (*Grammar, error) {
	if g == nil || g.Len() == 0 {
		return nil, errors.WithStack(ErrGrammarEmpty)
	}
	missing := MissingWords(g, [][]string{vocabulary})
	if len(missing) == 0 {
		return g, nil
	}
	if _, ok := g.byLeft[UnknownSymbol]; ok {
		return nil, errors.Wrapf(ErrAlreadySmoothed, "%d new words", len(missing))
	}

	// Number of lexical productions per nonterminal
	lexical := map[Symbol]int{}
	for i := range g.productions {
		if p := &g.productions[i]; p.IsLexical() {
			lexical[p.Left]++
		}
	}

	productions := make([]Production, 0, len(g.productions)+len(lexical)+len(missing))
	for i := range g.productions {
		p := g.productions[i].Copy()
		if k, ok := lexical[p.Left]; ok {
			p.Probability *= float64(k) / float64(k+1)
		}
		productions = append(productions, p)
	}
	for _, left := range g.nonterminals {
		k, ok := lexical[left]
		if !ok {
			continue
		}
		productions = append(productions, Production{
			Left:        left,
			Right:       []Symbol{UnknownSymbol},
			Probability: 1 / float64(k+1),
		})
	}
	for _, word := range missing {
		productions = append(productions, Production{
			Left:        UnknownSymbol,
			Right:       []Symbol{TerminalSymbol(word)},
			Probability: 1 / float64(len(missing)),
		})
	}

	if glog.V(1) {
		glog.Infof("smooth: %d missing words, %d nonterminals rewrite to %s",
			len(missing), len(lexical), UnknownSymbol)
	}
	smoothed, err := NewGrammar(g.start, productions)
	if err != nil {
		return nil, errors.Wrap(err, "smooth")
	}
	return smoothed, nil
}
