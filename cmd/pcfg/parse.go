package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	pcfg "github.com/ling0322/treepcfg"
	"github.com/ling0322/treepcfg/treebank"
	"github.com/pkg/errors"
)

var oneLine bool

func newParser(grammarFile string) (*pcfg.Parser, error) {
	grammar, err := pcfg.LoadFile(grammarFile)
	if err != nil {
		return nil, err
	}
	if !grammar.UnknownReachable() {
		glog.Warningf("%s has no UNK production, unseen words will not parse", grammarFile)
	}
	return pcfg.NewParser(grammar, pcfg.WithMaxTokens(conf.Parse.MaxTokens))
}

// Parse parses the sentence given as arguments, or every line of -i
func Parse(cmd *commander.Command, args []string) error {
	if err := applyConfig(cmd); err != nil {
		return err
	}
	if err := VerifyFlags(cmd, []string{"g"}); err != nil {
		return err
	}

	var sentences [][]string
	if len(args) > 0 {
		sentences = [][]string{args}
	} else {
		in := os.Stdin
		if sentencesFile != "" {
			fd, err := os.Open(sentencesFile)
			if err != nil {
				return errors.WithStack(err)
			}
			defer fd.Close()
			in = fd
		}
		var err error
		if sentences, err = treebank.ReadSentences(in); err != nil {
			return err
		}
	}

	parser, err := newParser(conf.Grammar.Smoothed)
	if err != nil {
		return err
	}
	results, err := parser.ParseBatch(context.Background(), sentences, conf.Parse.Workers)
	if err != nil {
		return err
	}
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("# %s: %v\n", strings.Join(sentences[r.Index], " "), r.Err)
			continue
		}
		if oneLine {
			fmt.Println(r.Result.Tree.Bracketed())
		} else {
			fmt.Println(r.Result.Tree)
		}
		fmt.Printf("# log p = %g, unknown = %d\n", r.Result.LogProb, r.Result.UnknownCount())
	}
	return nil
}

func ParseCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Parse,
		UsageLine: "parse <file options> [tokens]",
		Short:     "prints the most probable tree of sentences",
		Long: `
prints the most probable tree of the sentence given as arguments, or of each
line of the input

	$ pcfg parse -g <grammar file> the dog barks
	$ pcfg parse -g <grammar file> -i <sentences file> [-workers 4] [options]

`,
		Flag: *flag.NewFlagSet("parse", flag.ExitOnError),
	}
	bindCommon(&cmd.Flag)
	bindParse(&cmd.Flag)
	cmd.Flag.StringVar(&conf.Grammar.Smoothed, "g", conf.Grammar.Smoothed, "Grammar File")
	cmd.Flag.StringVar(&sentencesFile, "i", "", "Sentences File (default stdin)")
	cmd.Flag.BoolVar(&oneLine, "oneline", false, "Print each tree on a single line")
	return cmd
}
