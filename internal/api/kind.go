package api

// PathKind classifies a namespace location.
type PathKind string

const (
	KindModule        PathKind = "module"
	KindStruct        PathKind = "struct"
	KindUnion         PathKind = "union"
	KindEnum          PathKind = "enum"
	KindVariant       PathKind = "variant"
	KindFunction      PathKind = "function"
	KindMethod        PathKind = "method"
	KindTrait         PathKind = "trait"
	KindTraitAlias    PathKind = "trait_alias"
	KindImpl          PathKind = "impl"
	KindImport        PathKind = "import"
	KindConstant      PathKind = "constant"
	KindStatic        PathKind = "static"
	KindTypedef       PathKind = "typedef"
	KindOpaqueType    PathKind = "opaque_type"
	KindForeignType   PathKind = "foreign_type"
	KindMacro         PathKind = "macro"
	KindProcAttribute PathKind = "proc_attribute"
	KindProcDerive    PathKind = "proc_derive"
	KindAssocConst    PathKind = "assoc_const"
	KindAssocType     PathKind = "assoc_type"
	KindPrimitive     PathKind = "primitive"
	KindKeyword       PathKind = "keyword"
)

// classify maps a rustdoc item-kind string to a PathKind. It accepts both
// the current rustdoc spellings and the older ones (method/function,
// typedef/type_alias, import/use) so dumps from different toolchains
// classify the same way. A struct field is never a namespace location of
// its own — it resolves to its enclosing struct's path — so its appearance
// here is a contract violation, as is any unknown kind.
func classify(kind string) (PathKind, error) {
	switch kind {
	case "module":
		return KindModule, nil
	case "extern_crate", "import", "use":
		return KindImport, nil
	case "struct":
		return KindStruct, nil
	case "union":
		return KindUnion, nil
	case "enum":
		return KindEnum, nil
	case "variant":
		return KindVariant, nil
	case "function":
		return KindFunction, nil
	case "method":
		return KindMethod, nil
	case "trait":
		return KindTrait, nil
	case "trait_alias":
		return KindTraitAlias, nil
	case "impl":
		return KindImpl, nil
	case "constant":
		return KindConstant, nil
	case "static":
		return KindStatic, nil
	case "typedef", "type_alias":
		return KindTypedef, nil
	case "opaque_ty", "opaque_type":
		return KindOpaqueType, nil
	case "foreign_type", "extern_type":
		return KindForeignType, nil
	case "macro":
		return KindMacro, nil
	case "proc_attribute":
		return KindProcAttribute, nil
	case "proc_derive":
		return KindProcDerive, nil
	case "assoc_const":
		return KindAssocConst, nil
	case "assoc_type":
		return KindAssocType, nil
	case "primitive":
		return KindPrimitive, nil
	case "keyword":
		return KindKeyword, nil
	case "struct_field":
		return "", contractf("struct field presented as a path kind")
	default:
		return "", contractf("unclassified item kind %q", kind)
	}
}
