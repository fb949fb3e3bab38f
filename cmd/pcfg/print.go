package main

import (
	"fmt"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	pcfg "github.com/ling0322/treepcfg"
)

var statsOnly bool

func Print(cmd *commander.Command, args []string) error {
	if err := applyConfig(cmd); err != nil {
		return err
	}
	if err := VerifyFlags(cmd, []string{"g"}); err != nil {
		return err
	}
	grammar, err := pcfg.LoadFile(conf.Grammar.Base)
	if err != nil {
		return err
	}
	if !statsOnly {
		fmt.Print(grammar)
		return nil
	}
	stats := grammar.Stats()
	fmt.Printf("Start:\t\t\t%s\n", grammar.Start())
	fmt.Printf("Productions:\t\t%d\n", stats.Productions)
	fmt.Printf("  lexical:\t\t%d\n", stats.Lexical)
	fmt.Printf("  unary:\t\t%d\n", stats.Unary)
	fmt.Printf("  binary:\t\t%d\n", stats.Binary)
	fmt.Printf("Nonterminals:\t\t%d (%d synthetic)\n", stats.Nonterminals, stats.Synthetic)
	fmt.Printf("Terminals:\t\t%d\n", stats.Terminals)
	fmt.Printf("UNK reachable:\t\t%v\n", grammar.UnknownReachable())
	return nil
}

func PrintCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       Print,
		UsageLine: "print <file options>",
		Short:     "prints a grammar file as text",
		Long: `
prints a grammar file in the text format read by ParseGrammar

	$ pcfg print -g <grammar file> [-stats]

`,
		Flag: *flag.NewFlagSet("print", flag.ExitOnError),
	}
	bindCommon(&cmd.Flag)
	cmd.Flag.StringVar(&conf.Grammar.Base, "g", conf.Grammar.Base, "Grammar File")
	cmd.Flag.BoolVar(&statsOnly, "stats", false, "Print counts only")
	return cmd
}
