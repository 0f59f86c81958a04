package rustdoc

import (
	"encoding/json"
	"testing"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	data := []byte(`{
		"root": 0,
		"crate_version": "1.2.3",
		"index": {
			"0": {"id": 0, "crate_id": 0, "name": "lib",
				"span": {"filename": "src/lib.rs", "begin": [1, 0], "end": [10, 1]},
				"inner": {"module": {"items": [1], "is_crate": true}}},
			"1": {"id": 1, "crate_id": 0, "name": "f", "inner": {"function": {}}}
		},
		"paths": {
			"0": {"crate_id": 0, "path": ["lib"], "kind": "module"},
			"1": {"crate_id": 0, "path": ["lib", "f"], "kind": "function"}
		},
		"external_crates": {"2": {"name": "serde"}},
		"format_version": 37
	}`)

	crate, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if crate.Root != 0 || crate.FormatVersion != 37 {
		t.Errorf("root = %d, format = %d", crate.Root, crate.FormatVersion)
	}

	root, ok := crate.Lookup(0)
	if !ok {
		t.Fatal("root missing from index")
	}
	if root.Span == nil || root.Span.Filename != "src/lib.rs" || root.Span.Begin != [2]int{1, 0} {
		t.Errorf("span = %+v", root.Span)
	}
	if got := root.Kind(); got != "module" {
		t.Errorf("kind = %s, want module", got)
	}
	if members := root.Members(); len(members) != 1 || members[0] != 1 {
		t.Errorf("members = %v, want [1]", members)
	}

	if crate.ExternalCrateName(2) != "serde" {
		t.Errorf("external crate 2 = %q", crate.ExternalCrateName(2))
	}
	if crate.ExternalCrateName(9) != "" {
		t.Errorf("unknown crate should resolve to empty name")
	}
}

func TestDecode_Invalid(t *testing.T) {
	t.Parallel()

	if _, err := Decode([]byte(`{"root": `)); err == nil {
		t.Fatal("expected decode error for truncated JSON")
	}
}

func TestItem_Members(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		inner string
		want  []int
	}{
		{"module", `{"module":{"items":[1,2,3]}}`, []int{1, 2, 3}},
		{"trait", `{"trait":{"items":[4]}}`, []int{4}},
		{"impl", `{"impl":{"items":[5,6]}}`, []int{5, 6}},
		{"enum", `{"enum":{"variants":[7]}}`, []int{7}},
		{"function", `{"function":{}}`, nil},
		{"empty", ``, nil},
	}

	for _, tc := range cases {
		item := Item{Inner: json.RawMessage(tc.inner)}
		got := item.Members()
		if len(got) != len(tc.want) {
			t.Errorf("%s: members = %v, want %v", tc.name, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("%s: members = %v, want %v", tc.name, got, tc.want)
				break
			}
		}
	}
}

func TestItem_Import(t *testing.T) {
	t.Parallel()

	item := Item{Inner: json.RawMessage(`{"use":{"name":"Thing","id":42,"is_glob":false}}`)}
	use, ok := item.Import()
	if !ok {
		t.Fatal("Import() = false for a use item")
	}
	if use.Name != "Thing" || use.Target == nil || *use.Target != 42 || use.IsGlob {
		t.Errorf("use = %+v", use)
	}

	// Older dumps spell the discriminant "import".
	item = Item{Inner: json.RawMessage(`{"import":{"name":"Old","id":7,"is_glob":true}}`)}
	use, ok = item.Import()
	if !ok || use.Name != "Old" || !use.IsGlob {
		t.Errorf("import spelling: ok=%v use=%+v", ok, use)
	}

	// Glob of a primitive has no target id.
	item = Item{Inner: json.RawMessage(`{"use":{"name":"u32","is_glob":false}}`)}
	use, ok = item.Import()
	if !ok || use.Target != nil {
		t.Errorf("targetless use: ok=%v target=%v", ok, use.Target)
	}

	item = Item{Inner: json.RawMessage(`{"function":{}}`)}
	if _, ok := item.Import(); ok {
		t.Error("Import() = true for a function")
	}
}
