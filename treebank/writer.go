package treebank

import (
	"bufio"
	"io"
	"os"

	pcfg "github.com/ling0322/treepcfg"
	"github.com/pkg/errors"
)

// Write writes trees to w, one bracketed tree per line
func Write(w io.Writer, trees []*pcfg.Node) error {
	bw := bufio.NewWriter(w)
	for _, tree := range trees {
		if _, err := bw.WriteString(tree.Bracketed()); err != nil {
			return errors.WithStack(err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return errors.WithStack(err)
		}
	}
	return errors.WithStack(bw.Flush())
}

// WriteFile writes trees into the file at path
func WriteFile(path string, trees []*pcfg.Node) error {
	fd, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := Write(fd, trees); err != nil {
		fd.Close()
		return errors.Wrapf(err, "write %s", path)
	}
	return errors.WithStack(fd.Close())
}
