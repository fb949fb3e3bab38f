package pcfg

import (
	"github.com/golang/glog"
)

// assert check exp, if exp == false, abort with message. Only for invariants
// that NewGrammar has already established
func assert(exp bool, message string) {
	if !exp {
		glog.Fatal(message)
	}
}
