package tracelog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracerWritesOneLinePerEvent(t *testing.T) {
	var buf bytes.Buffer
	tr := New(&buf)

	tr.PassStart("std/array", "resolve_names")
	tr.PassOK("std/array", "resolve_names")
	tr.PassWarn("std/array", "check_throws", 2)
	tr.PassFail("std/array", "check_types", 1)

	lines := bytes.Count(buf.Bytes(), []byte("\n"))
	assert.Equal(t, 4, lines)
	assert.Contains(t, buf.String(), "std/array")
	assert.Contains(t, buf.String(), "resolve_names")
}

func TestNilTracerIsNoOp(t *testing.T) {
	var tr *Tracer
	assert.NotPanics(t, func() {
		tr.PassStart("m", "p")
		tr.PassOK("m", "p")
		tr.PassWarn("m", "p", 1)
		tr.PassFail("m", "p", 1)
	})
}
