package pcfg

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/pkg/errors"
)

// grammarBlob is the persisted form of a Grammar. Indexes are rebuilt on load
type grammarBlob struct {
	Start       Symbol
	Productions []Production
}

// Save writes g to w as a gob blob
func (g *Grammar) Save(w io.Writer) error {
	blob := &grammarBlob{Start: g.start, Productions: g.productions}
	if err := gob.NewEncoder(w).Encode(blob); err != nil {
		return errors.Wrap(err, "save grammar")
	}
	return nil
}

// Load reads a grammar written by Save. It is validated again like any new
// grammar
func Load(r io.Reader) (*Grammar, error) {
	blob := &grammarBlob{}
	if err := gob.NewDecoder(r).Decode(blob); err != nil {
		return nil, errors.Wrap(err, "load grammar")
	}
	return NewGrammar(blob.Start, blob.Productions)
}

// SaveFile writes g to the file at path
func (g *Grammar) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed creating grammar file %s", path)
	}
	if err := g.Save(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "grammar file %s", path)
	}
	return errors.Wrapf(f.Close(), "grammar file %s", path)
}

// LoadFile reads a grammar from the file at path
func LoadFile(path string) (*Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed reading grammar from %s", path)
	}
	defer f.Close()
	g, err := Load(f)
	if err != nil {
		return nil, errors.Wrapf(err, "grammar file %s", path)
	}
	return g, nil
}
