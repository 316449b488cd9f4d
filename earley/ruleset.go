package earley

import (
	"github.com/npillmayer/grift/grammar"
)

type ruleset map[*grammar.Rule]struct{}

var exists = struct{}{}

func (set ruleset) add(r *grammar.Rule) ruleset {
	if set == nil {
		set = ruleset{}
	}
	set[r] = exists
	return set
}

func (set ruleset) contains(r *grammar.Rule) bool {
	if set == nil || r == nil {
		return false
	}
	_, ok := set[r]
	return ok
}
