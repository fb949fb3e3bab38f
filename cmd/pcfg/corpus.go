package main

import (
	"github.com/golang/glog"
	pcfg "github.com/ling0322/treepcfg"
	"github.com/ling0322/treepcfg/treebank"
)

// readSplit reads the trees of the corpus files selected by the slice
// expression split
func readSplit(split string) ([]*pcfg.Node, error) {
	corpus, err := treebank.Open(conf.Corpus.Dir, conf.Corpus.Pattern, treebank.Options{StripNone: conf.Corpus.StripNone})
	if err != nil {
		return nil, err
	}
	ids, err := treebank.Slice(corpus.FileIDs(), split)
	if err != nil {
		return nil, err
	}
	trees, err := corpus.ParsedSents(ids...)
	if err != nil {
		return nil, err
	}
	glog.Infof("read %d trees from %d files (%s)", len(trees), len(ids), split)
	return trees, nil
}

func leaves(trees []*pcfg.Node) [][]string {
	sentences := make([][]string, len(trees))
	for i, tree := range trees {
		sentences[i] = tree.Leaves()
	}
	return sentences
}
