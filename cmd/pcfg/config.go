package main

import (
	"os"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the run configuration shared by all commands. Commands bind
// their flags to it, values given on the command line win over the file
type Config struct {
	Corpus struct {
		Dir       string `yaml:"dir"`
		Pattern   string `yaml:"pattern"`
		Train     string `yaml:"train"`
		Test      string `yaml:"test"`
		StripNone bool   `yaml:"strip_none"`
	} `yaml:"corpus"`

	Grammar struct {
		Base        string `yaml:"base"`
		Smoothed    string `yaml:"smoothed"`
		MarkovOrder int    `yaml:"markov_order"`
		Start       string `yaml:"start"`
	} `yaml:"grammar"`

	Parse struct {
		Workers   int `yaml:"workers"`
		MaxTokens int `yaml:"max_tokens"`
		Subset    int `yaml:"subset"`
	} `yaml:"parse"`

	Serve struct {
		Addr           string   `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"serve"`
}

// DefaultConfig trains on the first 190 files of the treebank sample and
// tests on the rest
func DefaultConfig() *Config {
	conf := &Config{}
	conf.Corpus.Dir = "treebank"
	conf.Corpus.Pattern = "wsj_*.mrg"
	conf.Corpus.Train = "0:190"
	conf.Corpus.Test = "190:"
	conf.Grammar.Base = "grammar.pcfg"
	conf.Grammar.Smoothed = "grammar_unk.pcfg"
	conf.Grammar.MarkovOrder = 2
	conf.Grammar.Start = "S"
	conf.Serve.Addr = ":8080"
	conf.Serve.AllowedOrigins = []string{"*"}
	return conf
}

// LoadConfig reads a yaml configuration over conf
func LoadConfig(path string, conf *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := yaml.Unmarshal(data, conf); err != nil {
		return errors.Wrapf(err, "config %s", path)
	}
	return nil
}

var (
	conf      = DefaultConfig()
	confFile  string
	verbosity int
)

// applyConfig loads the -conf file into conf, then sets again the flags given
// on the command line so that they override the file
func applyConfig(cmd *commander.Command) error {
	if err := setVerbosity(verbosity); err != nil {
		return err
	}
	if confFile == "" {
		return nil
	}
	explicit := map[string]string{}
	cmd.Flag.Visit(func(f *flag.Flag) {
		explicit[f.Name] = f.Value.String()
	})
	if err := LoadConfig(confFile, conf); err != nil {
		return err
	}
	for name, value := range explicit {
		if err := cmd.Flag.Set(name, value); err != nil {
			return errors.Wrapf(err, "flag -%s", name)
		}
	}
	return nil
}

func bindCommon(fs *flag.FlagSet) {
	fs.StringVar(&confFile, "conf", "", "YAML Configuration File")
	fs.IntVar(&verbosity, "v", 0, "Log Verbosity")
}

func bindCorpus(fs *flag.FlagSet) {
	fs.StringVar(&conf.Corpus.Dir, "corpus", conf.Corpus.Dir, "Treebank Directory")
	fs.StringVar(&conf.Corpus.Pattern, "pattern", conf.Corpus.Pattern, "Treebank File Pattern")
	fs.StringVar(&conf.Corpus.Train, "train", conf.Corpus.Train, "Training Files (start:end)")
	fs.StringVar(&conf.Corpus.Test, "test", conf.Corpus.Test, "Test Files (start:end)")
	fs.BoolVar(&conf.Corpus.StripNone, "strip-none", conf.Corpus.StripNone, "Remove -NONE- Elements")
}

func bindParse(fs *flag.FlagSet) {
	fs.IntVar(&conf.Parse.Workers, "workers", conf.Parse.Workers, "Parsing Workers (0 for all CPUs)")
	fs.IntVar(&conf.Parse.MaxTokens, "max-tokens", conf.Parse.MaxTokens, "Longest Sentence to Parse (0 for no limit)")
}

// VerifyFlags prints the usage and fails when a required flag is empty
func VerifyFlags(cmd *commander.Command, required []string) error {
	for _, name := range required {
		f := cmd.Flag.Lookup(name)
		if f == nil || f.Value.String() == "" {
			cmd.Usage()
			return errors.Errorf("required flag -%s not set", name)
		}
	}
	return nil
}
