package types

// Kind tags the variant of a Type (spec.md §3's "tagged union").
type Kind int

const (
	KindPrimitive Kind = iota
	KindObject
	KindTrait
	KindBlock
	KindOptional
	KindTypeParameter
	KindDynamic
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindPrimitive:
		return "Primitive"
	case KindObject:
		return "Object"
	case KindTrait:
		return "Trait"
	case KindBlock:
		return "Block"
	case KindOptional:
		return "Optional"
	case KindTypeParameter:
		return "TypeParameter"
	case KindDynamic:
		return "Dynamic"
	case KindError:
		return "Error"
	default:
		return "Unknown"
	}
}

// PrototypeID is a built-in prototype's stable numeric identity, the
// "bytecode ID" external contract from spec.md §6: downstream codegen
// indexes a fixed prototype table by this number. The set is closed at
// [0, 21]; do not add members outside it without extending the contract.
type PrototypeID int

const (
	ProtoObject PrototypeID = iota
	ProtoInteger
	ProtoFloat
	ProtoString
	ProtoArray
	ProtoBlock
	ProtoBoolean
	ProtoByteArray
	ProtoNil
	ProtoModule
	ProtoSocket
	ProtoProcess
	ProtoGenerator
	ProtoFileDescriptor
	ProtoReadOnlyFile
	ProtoWriteOnlyFile
	ProtoReadWriteFile
	ProtoPath
	ProtoTime
	ProtoDuration
	ProtoLibrary
	ProtoPointer
)

var protoNames = map[PrototypeID]string{
	ProtoObject:         "Object",
	ProtoInteger:        "Integer",
	ProtoFloat:          "Float",
	ProtoString:         "String",
	ProtoArray:          "Array",
	ProtoBlock:          "Block",
	ProtoBoolean:        "Boolean",
	ProtoByteArray:      "ByteArray",
	ProtoNil:            "Nil",
	ProtoModule:         "Module",
	ProtoSocket:         "Socket",
	ProtoProcess:        "Process",
	ProtoGenerator:      "Generator",
	ProtoFileDescriptor: "FileDescriptor",
	ProtoReadOnlyFile:   "ReadOnlyFile",
	ProtoWriteOnlyFile:  "WriteOnlyFile",
	ProtoReadWriteFile:  "ReadWriteFile",
	ProtoPath:           "Path",
	ProtoTime:           "Time",
	ProtoDuration:       "Duration",
	ProtoLibrary:        "Library",
	ProtoPointer:        "Pointer",
}

func (p PrototypeID) String() string {
	if n, ok := protoNames[p]; ok {
		return n
	}
	return "UnknownPrototype"
}

// BlockKind mirrors ast.BlockKind for the type-level representation of a
// Block type (spec.md §3): method (named, has self), closure (captures
// locals), lambda (does not capture locals).
type BlockKind int

const (
	MethodBlock BlockKind = iota
	ClosureBlock
	LambdaBlock
)

func (k BlockKind) String() string {
	switch k {
	case MethodBlock:
		return "method"
	case ClosureBlock:
		return "closure"
	case LambdaBlock:
		return "lambda"
	default:
		return "unknown"
	}
}
