// Command pcfg induces probabilistic grammars from a treebank and parses with
// them
//
//	$ pcfg induce -corpus treebank -o grammar.pcfg
//	$ pcfg smooth -g grammar.pcfg -o grammar_unk.pcfg
//	$ pcfg eval -g grammar_unk.pcfg -subset 10
package main

import (
	goflag "flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang/glog"
	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/pkg/errors"
)

func allCommands() *commander.Command {
	return &commander.Command{
		UsageLine: os.Args[0],
		Short:     "probabilistic context-free grammar induction and parsing",
		Subcommands: []*commander.Command{
			InduceCmd(),
			SmoothCmd(),
			ParseCmd(),
			EvalCmd(),
			SpeedCmd(),
			PrintCmd(),
			ServeCmd(),
		},
		Flag: *flag.NewFlagSet("pcfg", flag.ExitOnError),
	}
}

// setVerbosity routes glog to stderr at level v
func setVerbosity(v int) error {
	if err := goflag.Set("logtostderr", "true"); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(goflag.Set("v", strconv.Itoa(v)))
}

func main() {
	// glog reads its flags from the standard flag set
	goflag.CommandLine.Parse([]string{})
	defer glog.Flush()

	if err := allCommands().Dispatch(os.Args[1:]); err != nil {
		glog.Flush()
		fmt.Printf("**err**: %v\n", err)
		os.Exit(1)
	}
}
