package parser

import (
	"testing"

	"github.com/veltra-lang/veltc/internal/ast"
	"github.com/veltra-lang/veltc/internal/diag"
	"github.com/veltra-lang/veltc/internal/lexer"
)

// parse builds a Parser over src and runs ParseFile, returning the result
// and the sink that collected any diagnostics.
func parse(src string) (*ast.File, *diag.Sink, error) {
	file := &ast.SourceFile{Path: "test.velt", Src: src}
	sink := diag.NewSink()
	p := New(lexer.New(src, "test.velt"), file, sink)
	f, err := p.ParseFile()
	return f, sink, err
}

// mustParse parses src and fails the test if any diagnostic was reported.
func mustParse(t *testing.T, src string) *ast.File {
	t.Helper()
	f, sink, err := parse(src)
	if err != nil {
		t.Fatalf("ParseFile returned error: %v", err)
	}
	if sink.HasErrors() {
		t.Fatalf("unexpected errors parsing %q: %v", src, sink.Errors())
	}
	return f
}

// firstExpr parses src as a single expression statement and returns its
// parsed Expr.
func firstExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	f := mustParse(t, src)
	if len(f.Decls) == 0 {
		t.Fatalf("no declarations parsed from %q", src)
	}
	decl, ok := f.Decls[0].(*ast.ExprDecl)
	if !ok {
		t.Fatalf("first decl of %q is not an ExprDecl: %T", src, f.Decls[0])
	}
	return decl.Expr
}

// errorCodes returns the diag.Code of every error the sink collected.
func errorCodes(sink *diag.Sink) []diag.Code {
	var codes []diag.Code
	for _, r := range sink.Errors() {
		codes = append(codes, r.Code)
	}
	return codes
}
