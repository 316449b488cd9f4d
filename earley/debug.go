package earley

import (
	"bytes"

	"github.com/npillmayer/grift/grammar"
)

func dumpState(states []*StateSet, stateno uint64) {
	tracer().Debugf("--- State %04d ------------------------------------", stateno)
	S := states[stateno]
	for n := 0; n < S.Size(); n++ {
		tracer().Debugf("[%2d] %s", n+1, S.At(n))
	}
}

func itemSetString(R []grammar.Item) string {
	var b bytes.Buffer
	b.WriteString("{")
	for i, item := range R {
		if i > 0 {
			b.WriteString(", ")
		} else {
			b.WriteString(" ")
		}
		b.WriteString(item.String())
	}
	b.WriteString(" }")
	return b.String()
}
