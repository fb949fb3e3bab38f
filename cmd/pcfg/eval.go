package main

import (
	"context"
	"fmt"

	"github.com/golang/glog"
	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	pcfg "github.com/ling0322/treepcfg"
)

// evaluate parses the sentences of gold and compares the predicted
// part-of-speech labels with the gold ones
func evaluate(ctx context.Context, parser *pcfg.Parser, gold []*pcfg.Node, report func(i int, r *pcfg.SentenceResult, total *pcfg.Total)) (*pcfg.Total, error) {
	results, err := parser.ParseBatch(ctx, leaves(gold), conf.Parse.Workers)
	if err != nil {
		return nil, err
	}
	total := &pcfg.Total{}
	for _, r := range results {
		if r.Err != nil {
			glog.Warningf("sentence %d skipped: %v", r.Index, r.Err)
			total.Skip()
			continue
		}
		sentence, err := pcfg.EvaluateParse(r.Result, gold[r.Index])
		if err != nil {
			return nil, err
		}
		total.Add(sentence)
		if report != nil {
			report(r.Index, sentence, total)
		}
	}
	return total, nil
}

func Eval(cmd *commander.Command, args []string) error {
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
	gold, err := readSplit(conf.Corpus.Test)
	if err != nil {
		return err
	}
	if conf.Parse.Subset > 0 && conf.Parse.Subset < len(gold) {
		gold = gold[:conf.Parse.Subset]
	}

	total, err := evaluate(context.Background(), parser, gold, func(i int, r *pcfg.SentenceResult, total *pcfg.Total) {
		fmt.Printf("Sentence %d\n", i)
		fmt.Printf("Sentence length: %d\n", r.Total)
		fmt.Printf("Unknown count: %d\n", r.Unknown)
		fmt.Printf("Sentence accuracy: %g\n", r.Accuracy())
		fmt.Printf("Running accuracy: %g\n", total.Accuracy())
	})
	if err != nil {
		return err
	}
	fmt.Printf("Sentences:\t\t%d (%d skipped)\n", total.Population, total.Skipped)
	fmt.Printf("Total accuracy:\t\t%g\n", total.Accuracy())
	fmt.Printf("Mean sentence accuracy:\t%g\n", total.MeanSentenceAccuracy())
	fmt.Printf("Exact match:\t\t%g\n", total.ExactMatch())
	return nil
}

func EvalCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Eval,
		UsageLine: "eval <file options> [arguments]",
		Short:     "evaluates part-of-speech accuracy on the test trees",
		Long: `
parses the test sentences and compares the predicted part-of-speech labels
with the gold ones

	$ pcfg eval -g <grammar file> -corpus <treebank dir> [-test 190:] [-subset 2] [options]

`,
		Flag: *flag.NewFlagSet("eval", flag.ExitOnError),
	}
	bindCommon(&cmd.Flag)
	bindCorpus(&cmd.Flag)
	bindParse(&cmd.Flag)
	cmd.Flag.StringVar(&conf.Grammar.Smoothed, "g", conf.Grammar.Smoothed, "Grammar File")
	cmd.Flag.IntVar(&conf.Parse.Subset, "subset", conf.Parse.Subset, "Evaluate the first n sentences only (0 for all)")
	return cmd
}
