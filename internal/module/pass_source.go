package module

import (
	"github.com/veltra-lang/veltc/internal/ast"
	"github.com/veltra-lang/veltc/internal/diag"
	"github.com/veltra-lang/veltc/internal/lexer"
	"github.com/veltra-lang/veltc/internal/parser"
)

// passPathToSource is pass 1: read the file's bytes once and produce the
// SourceFile handle every subsequent token location in this module points
// into (spec.md §5's resource policy).
func passPathToSource(c *ModuleCompiler, mod *Module, v passValue) (passValue, bool) {
	bytes, err := c.Reader.Read(v.path)
	if err != nil {
		c.State.Diagnostics.Add(diag.ModuleNotFound("path_to_source", ast.Span{}, v.path))
		return v, false
	}
	v.source = &ast.SourceFile{Path: v.path, Src: string(bytes)}
	mod.SourceLocation = ast.Pos{Line: 1, Column: 1, File: v.source}
	return v, true
}

// passSourceToAST is pass 2: lex and parse the module's body AST.
func passSourceToAST(c *ModuleCompiler, mod *Module, v passValue) (passValue, bool) {
	l := lexer.New(v.source.Src, v.source.Path)
	p := parser.New(l, v.source, c.State.Diagnostics)
	file, err := p.ParseFile()
	if err != nil {
		return v, false
	}
	mod.Body = file
	return v, true
}
