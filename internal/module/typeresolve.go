package module

import (
	"github.com/veltra-lang/veltc/internal/ast"
	"github.com/veltra-lang/veltc/internal/diag"
	"github.com/veltra-lang/veltc/internal/types"
)

// typeResolver converts surface ast.TypeExpr syntax into a resolved
// types.Type, shared by passDefineTypeSignatures (object/method
// declarations) and passDefineType (explicit `as` casts and inline type
// annotations encountered during inference).
type typeResolver struct {
	db         *types.Database
	sink       *diag.Sink
	phase      string
	typeParams map[string]*types.TypeParameter // in scope for the declaration being resolved
	self       types.Type                      // what `Self` resolves to, nil outside an object/trait body
}

func (r *typeResolver) resolve(expr ast.TypeExpr) types.Type {
	if expr == nil {
		return types.Dynamic{}
	}
	switch e := expr.(type) {
	case *ast.OptionalTypeExpr:
		return r.db.NewOptionalType(r.resolve(e.Inner))
	case *ast.BlockTypeExpr:
		args := make([]types.Type, len(e.Params))
		for i, p := range e.Params {
			args[i] = r.resolve(p)
		}
		var throwType types.Type
		if e.ThrowType != nil {
			throwType = r.resolve(e.ThrowType)
		}
		return r.db.NewBlockType(convertBlockKind(e.Kind), args, throwType, r.resolve(e.Return))
	case *ast.RefTypeExpr:
		return r.resolveRef(e)
	default:
		return types.ErrorType{}
	}
}

func (r *typeResolver) resolveRef(e *ast.RefTypeExpr) types.Type {
	name := e.Path[len(e.Path)-1]

	if len(e.Path) == 1 {
		if name == SelfTypeConstant && r.self != nil {
			return r.self
		}
		if tp, ok := r.typeParams[name]; ok {
			return tp
		}
		if prim, ok := primitiveByName(r.db, name); ok {
			return prim
		}
	}

	if obj, ok := r.db.LookupObjectType(name); ok {
		return r.instantiate(obj, e)
	}
	if trait, ok := r.db.LookupTraitType(name); ok {
		return trait
	}

	r.sink.Add(diag.UndefinedConstant(r.phase, ast.Span{Start: e.Pos, End: e.Pos}, name))
	return types.ErrorType{}
}

// instantiate builds a shallow instance of a generic object type when the
// reference supplies type arguments, per spec.md §4.4's
// new_shallow_instance.
func (r *typeResolver) instantiate(obj *types.Object, e *ast.RefTypeExpr) types.Type {
	if len(e.TypeArgs) == 0 {
		return obj
	}
	if len(e.TypeArgs) != obj.TypeParams.Len() {
		r.sink.Add(diag.GenericArityMismatch(r.phase, ast.Span{Start: e.Pos, End: e.Pos}, obj.Name, obj.TypeParams.Len(), len(e.TypeArgs)))
		return obj
	}
	params := obj.TypeParams.Clone()
	for i, name := range obj.TypeParams.Names() {
		params.Initialize(name, r.resolve(e.TypeArgs[i]))
	}
	return r.db.NewShallowInstance(obj, params)
}

func primitiveByName(db *types.Database, name string) (types.Type, bool) {
	switch name {
	case "Integer":
		return db.IntegerType(), true
	case "Float":
		return db.FloatType(), true
	case "String":
		return db.StringType(), true
	case "Array":
		return db.ArrayType(), true
	case "Block":
		return db.BlockType(), true
	case "Boolean":
		return db.BooleanType(), true
	case "ByteArray":
		return db.ByteArrayType(), true
	case "Nil":
		return db.NilType(), true
	case "Module":
		return db.ModuleType(), true
	default:
		return nil, false
	}
}

func convertBlockKind(k ast.BlockKind) types.BlockKind {
	switch k {
	case ast.LambdaBlock:
		return types.LambdaBlock
	case ast.ClosureBlock:
		return types.ClosureBlock
	default:
		return types.MethodBlock
	}
}
