// Package rustdoc models the rustdoc JSON document format and acquires
// documents, either by running cargo-doc against a local manifest or by
// downloading a published crate's dump from docs.rs.
package rustdoc

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Crate is the top-level structure of rustdoc JSON output.
type Crate struct {
	Root           int                      `json:"root"`
	CrateVersion   *string                  `json:"crate_version"`
	Index          map[string]Item          `json:"index"`
	Paths          map[string]Summary       `json:"paths"`
	ExternalCrates map[string]ExternalCrate `json:"external_crates"`
	FormatVersion  int                      `json:"format_version"`
}

// ExternalCrate identifies a dependency crate by name.
type ExternalCrate struct {
	Name        string `json:"name"`
	HTMLRootURL string `json:"html_root_url"`
}

// Item is a single item in the rustdoc index.
type Item struct {
	ID      int             `json:"id"`
	CrateID int             `json:"crate_id"`
	Name    *string         `json:"name"`
	Span    *Span           `json:"span"`
	Inner   json.RawMessage `json:"inner"`
}

// Summary provides the namespace path and kind for an item.
type Summary struct {
	CrateID int      `json:"crate_id"`
	Path    []string `json:"path"`
	Kind    string   `json:"kind"`
}

// Span is a source location: a filename plus begin/end (line, column) pairs.
type Span struct {
	Filename string `json:"filename"`
	Begin    [2]int `json:"begin"`
	End      [2]int `json:"end"`
}

// Use is the payload of a "use" item: a re-export of Target under Name.
type Use struct {
	Name   string `json:"name"`
	Target *int   `json:"id"`
	IsGlob bool   `json:"is_glob"`
}

// Lookup returns the index entry for a raw id.
func (c *Crate) Lookup(id int) (Item, bool) {
	item, ok := c.Index[strconv.Itoa(id)]
	return item, ok
}

// Path returns the path-table entry for a raw id.
func (c *Crate) Path(id int) (Summary, bool) {
	summary, ok := c.Paths[strconv.Itoa(id)]
	return summary, ok
}

// ExternalCrateName returns the registered name for a nonzero crate number,
// or "" if the number is unknown.
func (c *Crate) ExternalCrateName(crateID int) string {
	return c.ExternalCrates[strconv.Itoa(crateID)].Name
}

// Kind returns the discriminating single key of the item's inner payload.
func (i *Item) Kind() string {
	return innerKind(i.Inner)
}

// Members returns the ordered child ids of a container item: a module's
// items, a trait's or impl block's associated items, or an enum's variants.
// It returns nil for non-container kinds.
func (i *Item) Members() []int {
	kind := i.Kind()
	var field string
	switch kind {
	case "module", "trait", "impl":
		field = "items"
	case "enum":
		field = "variants"
	default:
		return nil
	}

	data := unwrapInner(i.Inner, kind)
	if data == nil {
		return nil
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil
	}

	var ids []int
	if err := json.Unmarshal(payload[field], &ids); err != nil {
		return nil
	}
	return ids
}

// Import decodes the item as a "use" re-export. It returns false when the
// item is not a use or the payload is malformed.
func (i *Item) Import() (Use, bool) {
	data := unwrapInner(i.Inner, "use")
	if data == nil {
		// Dumps older than format 30 spell the discriminant "import".
		data = unwrapInner(i.Inner, "import")
	}
	if data == nil {
		return Use{}, false
	}

	var use Use
	if err := json.Unmarshal(data, &use); err != nil {
		return Use{}, false
	}
	return use, true
}

// Decode parses rustdoc JSON bytes into a Crate.
func Decode(data []byte) (*Crate, error) {
	var crate Crate
	if err := json.Unmarshal(data, &crate); err != nil {
		return nil, fmt.Errorf("unmarshaling rustdoc JSON: %w", err)
	}
	return &crate, nil
}

// innerKind extracts the kind from the inner JSON's single key.
func innerKind(inner json.RawMessage) string {
	if len(inner) == 0 {
		return "unknown"
	}
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(inner, &outer); err != nil {
		return "unknown"
	}
	for k := range outer {
		return k
	}
	return "unknown"
}

// unwrapInner returns the payload under the given kind key, or nil.
func unwrapInner(inner json.RawMessage, kind string) json.RawMessage {
	if len(inner) == 0 {
		return nil
	}
	var outer map[string]json.RawMessage
	if err := json.Unmarshal(inner, &outer); err != nil {
		return nil
	}
	data, ok := outer[kind]
	if !ok {
		return nil
	}
	return data
}
