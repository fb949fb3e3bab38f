package main

import (
	"fmt"
	"os"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	pcfg "github.com/ling0322/treepcfg"
	"github.com/pkg/errors"
)

var textFile string

func Induce(cmd *commander.Command, args []string) error {
	if err := applyConfig(cmd); err != nil {
		return err
	}
	if err := VerifyFlags(cmd, []string{"corpus", "o"}); err != nil {
		return err
	}

	trees, err := readSplit(conf.Corpus.Train)
	if err != nil {
		return err
	}
	opts := pcfg.DefaultInduceOptions()
	opts.Start = conf.Grammar.Start
	opts.Normalize.MarkovOrder = conf.Grammar.MarkovOrder
	grammar, err := pcfg.Induce(trees, opts)
	if err != nil {
		return err
	}
	if err := grammar.SaveFile(conf.Grammar.Base); err != nil {
		return err
	}
	if textFile != "" {
		if err := os.WriteFile(textFile, []byte(grammar.String()), 0644); err != nil {
			return errors.WithStack(err)
		}
	}
	stats := grammar.Stats()
	fmt.Printf("Grammar:\t\t%s\n", conf.Grammar.Base)
	fmt.Printf("Productions:\t\t%d\n", grammar.Len())
	fmt.Printf("Nonterminals:\t\t%d (%d synthetic)\n", stats.Nonterminals, stats.Synthetic)
	fmt.Printf("Lexicon:\t\t%d\n", stats.Terminals)
	return nil
}

func InduceCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Induce,
		UsageLine: "induce <file options> [arguments]",
		Short:     "induces a grammar from the training trees",
		Long: `
induces a grammar from the training trees of a treebank

	$ pcfg induce -corpus <treebank dir> -o <grammar file> [-train 0:190] [-markov 2] [options]

`,
		Flag: *flag.NewFlagSet("induce", flag.ExitOnError),
	}
	bindCommon(&cmd.Flag)
	bindCorpus(&cmd.Flag)
	cmd.Flag.StringVar(&conf.Grammar.Base, "o", conf.Grammar.Base, "Output Grammar File")
	cmd.Flag.StringVar(&textFile, "text", "", "Also write the grammar as text to this file")
	cmd.Flag.IntVar(&conf.Grammar.MarkovOrder, "markov", conf.Grammar.MarkovOrder, "Horizontal Markov Order (0 for unbounded)")
	cmd.Flag.StringVar(&conf.Grammar.Start, "start", conf.Grammar.Start, "Start Symbol")
	return cmd
}
