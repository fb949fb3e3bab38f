package treebank

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/golang/glog"
	pcfg "github.com/ling0322/treepcfg"
	"github.com/pkg/errors"
)

// DefaultPattern matches the files of the Penn Treebank WSJ sample
const DefaultPattern = "wsj_*.mrg"

// Corpus is a directory of bracketed files. File ids are the file names
// relative to the directory, in sorted order
type Corpus struct {
	dir  string
	ids  []string
	opts Options
}

// Open lists the files of dir that match pattern
func Open(dir, pattern string, opts Options) (*Corpus, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	paths, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, errors.Wrapf(err, "pattern %q", pattern)
	}
	if len(paths) == 0 {
		return nil, errors.Errorf("no file matches %s in %s", pattern, dir)
	}
	ids := make([]string, len(paths))
	for i, path := range paths {
		if ids[i], err = filepath.Rel(dir, path); err != nil {
			return nil, errors.WithStack(err)
		}
	}
	sort.Strings(ids)
	glog.V(1).Infof("treebank %s: %d files", dir, len(ids))
	return &Corpus{dir: dir, ids: ids, opts: opts}, nil
}

// FileIDs returns the ids of all files
func (c *Corpus) FileIDs() []string {
	return append([]string(nil), c.ids...)
}

// ParsedSents reads the trees of the given files, of every file when no id
// is given
func (c *Corpus) ParsedSents(ids ...string) ([]*pcfg.Node, error) {
	if len(ids) == 0 {
		ids = c.ids
	}
	trees := []*pcfg.Node{}
	for _, id := range ids {
		fileTrees, err := ReadFile(filepath.Join(c.dir, id), c.opts)
		if err != nil {
			return nil, err
		}
		trees = append(trees, fileTrees...)
	}
	return trees, nil
}

// Sents returns the tokens of each tree of the given files
func (c *Corpus) Sents(ids ...string) ([][]string, error) {
	trees, err := c.ParsedSents(ids...)
	if err != nil {
		return nil, err
	}
	sentences := make([][]string, len(trees))
	for i, tree := range trees {
		sentences[i] = tree.Leaves()
	}
	return sentences, nil
}

// Slice selects a range of ids with a "start:end" expression, where either
// bound may be omitted and negative bounds count from the end
//
//	Slice(ids, "0:190")  first 190 files
//	Slice(ids, "190:")   the remaining ones
func Slice(ids []string, expr string) ([]string, error) {
	if expr == "" || expr == ":" {
		return ids, nil
	}
	parts := strings.Split(expr, ":")
	if len(parts) != 2 {
		return nil, errors.Errorf("bad slice %q, start:end expected", expr)
	}
	bounds := [2]int{0, len(ids)}
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, errors.Wrapf(err, "bad slice %q", expr)
		}
		if n < 0 {
			n += len(ids)
		}
		if n < 0 {
			n = 0
		}
		if n > len(ids) {
			n = len(ids)
		}
		bounds[i] = n
	}
	if bounds[0] > bounds[1] {
		return []string{}, nil
	}
	return ids[bounds[0]:bounds[1]], nil
}
