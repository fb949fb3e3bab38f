package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/pkg/errors"
)

var prefixes int

// Speed times the parse of growing prefixes of the first training sentence
func Speed(cmd *commander.Command, args []string) error {
	if err := applyConfig(cmd); err != nil {
		return err
	}
	if err := VerifyFlags(cmd, []string{"g", "corpus"}); err != nil {
		return err
	}

	parser, err := newParser(conf.Grammar.Smoothed)
	if err != nil {
		return err
	}
	trees, err := readSplit(conf.Corpus.Train)
	if err != nil {
		return err
	}
	if len(trees) == 0 {
		return errors.New("no training sentence")
	}
	sentence := trees[0].Leaves()
	for i := 1; i <= prefixes && i <= len(sentence); i++ {
		start := time.Now()
		result, err := parser.Parse(context.Background(), sentence[:i])
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("# %v\n", err)
		} else {
			fmt.Println(result.Tree)
		}
		fmt.Printf("Time elapsed for sentence of length %d: %v\n", i, elapsed)
	}
	return nil
}

func SpeedCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Speed,
		UsageLine: "speed <file options> [arguments]",
		Short:     "times the parser on prefixes of a sentence",
		Long: `
times the parser on the prefixes of length 1 to n of the first training
sentence

	$ pcfg speed -g <grammar file> -corpus <treebank dir> [-n 6] [options]

`,
		Flag: *flag.NewFlagSet("speed", flag.ExitOnError),
	}
	bindCommon(&cmd.Flag)
	bindCorpus(&cmd.Flag)
	cmd.Flag.StringVar(&conf.Grammar.Smoothed, "g", conf.Grammar.Smoothed, "Grammar File")
	cmd.Flag.IntVar(&prefixes, "n", 6, "Longest Prefix")
	return cmd
}
