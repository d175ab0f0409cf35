package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allTokens(t *testing.T, src string) []Token {
	t.Helper()
	l := New(src, "test.velt")
	var toks []Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == EOF {
			return toks
		}
	}
}

func TestNextTokenCoreGrammar(t *testing.T) {
	input := "object Point {\n" +
		"  @x\n" +
		"  def initialize(x: Integer) {\n" +
		"    @x = x\n" +
		"  }\n" +
		"}\n" +
		"# trailing comment\n" +
		"1 + 2 * 3\n"

	expect := []struct {
		typ TokenType
		lit string
	}{
		{OBJECT, "object"}, {CONSTANT, "Point"}, {LBRACE, "{"},
		{ATTRIBUTE, "x"},
		{DEF, "def"}, {IDENT, "initialize"}, {LPAREN, "("}, {IDENT, "x"}, {COLON, ":"}, {CONSTANT, "Integer"}, {RPAREN, ")"}, {LBRACE, "{"},
		{ATTRIBUTE, "x"}, {ASSIGN, "="}, {IDENT, "x"},
		{RBRACE, "}"},
		{RBRACE, "}"},
		{INT, "1"}, {PLUS, "+"}, {INT, "2"}, {STAR, "*"}, {INT, "3"},
		{EOF, ""},
	}

	toks := allTokens(t, input)
	require.Len(t, toks, len(expect))
	for i, e := range expect {
		assert.Equal(t, e.typ, toks[i].Type, "token %d", i)
		assert.Equal(t, e.lit, toks[i].Literal, "token %d literal", i)
	}
}

func TestCompoundAssignmentOperators(t *testing.T) {
	toks := allTokens(t, "x += 1\nx **= 2\nx <<= 3")
	types := make([]TokenType, 0, len(toks))
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	assert.Contains(t, types, PLUS_EQ)
	assert.Contains(t, types, STARSTAR_EQ)
	assert.Contains(t, types, SHL_EQ)
}

func TestHexAndUnderscoreNumericLiterals(t *testing.T) {
	toks := allTokens(t, "0xFF_AA 1_000_000 3.14_15 1e1_0")
	require.Len(t, toks, 5)
	assert.Equal(t, "0xFFAA", toks[0].Literal)
	assert.Equal(t, "1000000", toks[1].Literal)
	assert.Equal(t, "3.1415", toks[2].Literal)
	assert.Equal(t, FLOAT, toks[2].Type)
	assert.Equal(t, "1e10", toks[3].Literal)
	assert.Equal(t, FLOAT, toks[3].Type)
}

func TestSingleQuotedStringsAreRaw(t *testing.T) {
	toks := allTokens(t, `'no \n escapes here'`)
	require.GreaterOrEqual(t, len(toks), 1)
	assert.Equal(t, STRING, toks[0].Type)
	assert.Equal(t, `no \n escapes here`, toks[0].Literal)
}

func TestDoubleQuotedStringsProcessEscapes(t *testing.T) {
	toks := allTokens(t, `"line\nend\ttab"`)
	require.GreaterOrEqual(t, len(toks), 1)
	assert.Equal(t, STRING, toks[0].Type)
	assert.Equal(t, "line\nend\ttab", toks[0].Literal)
}

func TestTemplateStringWithoutInterpolationIsStringFull(t *testing.T) {
	toks := allTokens(t, "`plain text`")
	require.GreaterOrEqual(t, len(toks), 1)
	assert.Equal(t, STRING_FULL, toks[0].Type)
	assert.Equal(t, "plain text", toks[0].Literal)
}

func TestTemplateStringWithSingleInterpolation(t *testing.T) {
	toks := allTokens(t, "`hello {name}!`")

	// STRING_OPEN("hello "), IDENT(name), STRING_CLOSE("!"), EOF
	require.Len(t, toks, 4)
	assert.Equal(t, STRING_OPEN, toks[0].Type)
	assert.Equal(t, "hello ", toks[0].Literal)
	assert.Equal(t, IDENT, toks[1].Type)
	assert.Equal(t, "name", toks[1].Literal)
	assert.Equal(t, STRING_CLOSE, toks[2].Type)
	assert.Equal(t, "!", toks[2].Literal)
}

func TestTemplateStringSegmentsAndBraceDepth(t *testing.T) {
	// The interpolated expression itself contains a block literal with its
	// own `{`/`}`, which must not be confused with the interpolation's
	// closing brace.
	toks := allTokens(t, "`a{do { 1 }.call}b`")

	var kinds []TokenType
	for _, tok := range toks {
		kinds = append(kinds, tok.Type)
	}
	assert.Equal(t, STRING_OPEN, toks[0].Type)
	assert.Equal(t, "a", toks[0].Literal)
	assert.Contains(t, kinds, DO)
	assert.Contains(t, kinds, LBRACE)
	assert.Contains(t, kinds, RBRACE)
	last := toks[len(toks)-2] // just before EOF
	assert.Equal(t, STRING_CLOSE, last.Type)
	assert.Equal(t, "b", last.Literal)
}

func TestKeywordsAreReserved(t *testing.T) {
	for kw, typ := range keywords {
		toks := allTokens(t, kw)
		require.Len(t, toks, 2)
		assert.Equal(t, typ, toks[0].Type)
	}
}

func TestIdentifierVsConstantClassification(t *testing.T) {
	toks := allTokens(t, "foo Bar _baz")
	require.Len(t, toks, 4)
	assert.Equal(t, IDENT, toks[0].Type)
	assert.Equal(t, CONSTANT, toks[1].Type)
	assert.Equal(t, IDENT, toks[2].Type)
}

func TestLexerDeterminism(t *testing.T) {
	src := "object Foo { def bar(x) { x + 1 } }"
	first := allTokens(t, src)
	second := allTokens(t, src)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Type, second[i].Type)
		assert.Equal(t, first[i].Literal, second[i].Literal)
	}
}

func TestRoundTripLocation(t *testing.T) {
	src := "let x = 42"
	l := New(src, "rt.velt")
	for {
		tok := l.NextToken()
		if tok.Type == EOF {
			break
		}
		start := tok.Column - 1
		end := start + len(tok.Literal)
		if end > len(src) {
			continue // string/number literals may be transformed (escapes, underscore stripping)
		}
		if tok.Type == IDENT || tok.Type == LET || tok.Type == ASSIGN || tok.Type == INT {
			assert.Equal(t, tok.Literal, src[start:end], "token %q byte range must match source", tok.Literal)
		}
	}
}

func TestBangTokenFamily(t *testing.T) {
	toks := allTokens(t, "! != !! a!(T)")
	types := make([]TokenType, 0, len(toks))
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	assert.Equal(t, BANG, types[0])
	assert.Equal(t, NEQ, types[1])
	assert.Equal(t, BANGBANG, types[2])
	assert.Contains(t, types, BANG)
}

func TestIllegalTokenNeverPanics(t *testing.T) {
	assert.NotPanics(t, func() {
		allTokens(t, "$ \x01 \\")
	})
}
