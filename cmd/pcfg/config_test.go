package main

import (
	"os"
	"path/filepath"
	"testing"
)

const testConfig = `
corpus:
  dir: /data/ptb
  train: "0:10"
grammar:
  markov_order: 1
parse:
  workers: 4
serve:
  allowed_origins: ["http://localhost:3000"]
`

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pcfg.yaml")
	if err := os.WriteFile(path, []byte(testConfig), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	c := DefaultConfig()
	if err := LoadConfig(writeConfig(t), c); err != nil {
		t.Fatal(err)
	}
	if c.Corpus.Dir != "/data/ptb" || c.Corpus.Train != "0:10" || c.Grammar.MarkovOrder != 1 || c.Parse.Workers != 4 {
		t.Fatalf("file values not loaded: %+v", c)
	}
	// Defaults survive what the file does not set
	if c.Corpus.Test != "190:" || c.Grammar.Start != "S" || c.Corpus.Pattern != "wsj_*.mrg" {
		t.Fatalf("defaults lost: %+v", c)
	}
	if len(c.Serve.AllowedOrigins) != 1 || c.Serve.AllowedOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected origins %v", c.Serve.AllowedOrigins)
	}

	if err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"), c); err == nil {
		t.Fatal("missing file should fail")
	}
	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("corpus: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := LoadConfig(bad, DefaultConfig()); err == nil {
		t.Fatal("bad yaml should fail")
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	conf, confFile, verbosity = DefaultConfig(), "", 0
	defer func() {
		conf, confFile, verbosity = DefaultConfig(), "", 0
	}()

	cmd := InduceCmd()
	if err := cmd.Flag.Parse([]string{"-conf", writeConfig(t), "-markov", "3", "-o", "out.pcfg"}); err != nil {
		t.Fatal(err)
	}
	if err := applyConfig(cmd); err != nil {
		t.Fatal(err)
	}
	if conf.Grammar.MarkovOrder != 3 {
		t.Fatalf("flag should win, got markov order %d", conf.Grammar.MarkovOrder)
	}
	if conf.Grammar.Base != "out.pcfg" {
		t.Fatalf("unexpected output %s", conf.Grammar.Base)
	}
	if conf.Corpus.Dir != "/data/ptb" || conf.Corpus.Train != "0:10" {
		t.Fatalf("file values not loaded: %+v", conf.Corpus)
	}
	if err := VerifyFlags(cmd, []string{"corpus", "o"}); err != nil {
		t.Fatal(err)
	}
}
