package api

import (
	"errors"
	"testing"
)

// Every externally visible rustdoc kind, across current and older
// spellings. New kinds must be added here and to classify together.
var allPathKinds = []string{
	"module", "extern_crate", "import", "use", "struct", "union", "enum",
	"variant", "function", "method", "trait", "trait_alias", "impl",
	"constant", "static", "typedef", "type_alias", "opaque_ty",
	"opaque_type", "foreign_type", "extern_type", "macro",
	"proc_attribute", "proc_derive", "assoc_const", "assoc_type",
	"primitive", "keyword",
}

func TestClassify_Total(t *testing.T) {
	t.Parallel()

	for _, kind := range allPathKinds {
		got, err := classify(kind)
		if err != nil {
			t.Errorf("classify(%q) failed: %v", kind, err)
			continue
		}
		if got == "" {
			t.Errorf("classify(%q) returned an empty kind", kind)
		}
	}
}

func TestClassify_StructFieldExcluded(t *testing.T) {
	t.Parallel()

	_, err := classify("struct_field")
	var contractErr *ContractError
	if !errors.As(err, &contractErr) {
		t.Fatalf("expected ContractError for struct_field, got %v", err)
	}
}

func TestClassify_UnknownKind(t *testing.T) {
	t.Parallel()

	_, err := classify("hologram")
	var contractErr *ContractError
	if !errors.As(err, &contractErr) {
		t.Fatalf("expected ContractError for unknown kind, got %v", err)
	}
}

func TestClassify_SpellingAliases(t *testing.T) {
	t.Parallel()

	pairs := [][2]string{
		{"typedef", "type_alias"},
		{"opaque_ty", "opaque_type"},
		{"foreign_type", "extern_type"},
		{"import", "use"},
	}
	for _, pair := range pairs {
		a, err := classify(pair[0])
		if err != nil {
			t.Fatalf("classify(%q): %v", pair[0], err)
		}
		b, err := classify(pair[1])
		if err != nil {
			t.Fatalf("classify(%q): %v", pair[1], err)
		}
		if a != b {
			t.Errorf("classify(%q) = %s, classify(%q) = %s, want equal", pair[0], a, pair[1], b)
		}
	}
}
