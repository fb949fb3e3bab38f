package main

import (
	"fmt"
	"os"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	pcfg "github.com/ling0322/treepcfg"
	"github.com/ling0322/treepcfg/treebank"
	"github.com/pkg/errors"
)

var sentencesFile string

// vocabulary returns the sentences of -s when given, the tokens of the test
// trees otherwise
func vocabulary() ([][]string, error) {
	if sentencesFile != "" {
		fd, err := os.Open(sentencesFile)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		defer fd.Close()
		return treebank.ReadSentences(fd)
	}
	trees, err := readSplit(conf.Corpus.Test)
	if err != nil {
		return nil, err
	}
	return leaves(trees), nil
}

func Smooth(cmd *commander.Command, args []string) error {
	if err := applyConfig(cmd); err != nil {
		return err
	}
	if err := VerifyFlags(cmd, []string{"g", "o"}); err != nil {
		return err
	}

	grammar, err := pcfg.LoadFile(conf.Grammar.Base)
	if err != nil {
		return err
	}
	sentences, err := vocabulary()
	if err != nil {
		return err
	}
	missing := pcfg.MissingWords(grammar, sentences)
	smoothed, err := pcfg.Smooth(grammar, missing)
	if err != nil {
		return err
	}
	if err := smoothed.SaveFile(conf.Grammar.Smoothed); err != nil {
		return err
	}
	fmt.Printf("Missing words:\t\t%d\n", len(missing))
	fmt.Printf("Productions:\t\t%d -> %d\n", grammar.Len(), smoothed.Len())
	fmt.Printf("Grammar:\t\t%s\n", conf.Grammar.Smoothed)
	return nil
}

func SmoothCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Smooth,
		UsageLine: "smooth <file options> [arguments]",
		Short:     "adds UNK productions for words the grammar never saw",
		Long: `
adds UNK productions for the words of the test sentences that the grammar
never saw

	$ pcfg smooth -g <grammar file> -o <smoothed grammar file> [-test 190:] [-s <sentences file>] [options]

`,
		Flag: *flag.NewFlagSet("smooth", flag.ExitOnError),
	}
	bindCommon(&cmd.Flag)
	bindCorpus(&cmd.Flag)
	cmd.Flag.StringVar(&conf.Grammar.Base, "g", conf.Grammar.Base, "Input Grammar File")
	cmd.Flag.StringVar(&conf.Grammar.Smoothed, "o", conf.Grammar.Smoothed, "Output Grammar File")
	cmd.Flag.StringVar(&sentencesFile, "s", "", "Sentences File, one tokenized sentence per line")
	return cmd
}
