// Package api builds a queryable graph of a crate's public surface from a
// rustdoc document: the namespace paths, the concrete items defined at each
// path, and the import paths that alias re-exported definitions.
package api

import "github.com/jcdickinson/crategraph/internal/rustdoc"

// CrateID is a handle into API.Crates.
type CrateID int

// PathID is a handle into API.Paths.
type PathID int

// ItemID is a handle into API.Items.
type ItemID int

// Crate is an external compilation unit referenced by the analyzed surface.
// The analyzed crate itself (raw crate number 0) is never materialized.
type Crate struct {
	Name string `json:"name"`
}

// Path is a named location in the API namespace tree. Container kinds are
// pure namespace nodes; leaf kinds carry the handle of the item defined
// there. Children are in traversal order.
type Path struct {
	Kind     PathKind      `json:"kind"`
	Name     string        `json:"name"`
	Crate    *CrateID      `json:"crate,omitempty"`
	Item     *ItemID       `json:"item,omitempty"`
	Span     *rustdoc.Span `json:"span,omitempty"`
	Children []PathID      `json:"children,omitempty"`
}

// Item is a concrete definition, attached to exactly one Path via that
// Path's Item handle. Only identity and location are modeled; full type
// signatures are not.
type Item struct {
	Crate *CrateID      `json:"crate,omitempty"`
	Name  *string       `json:"name,omitempty"`
	Span  *rustdoc.Span `json:"span,omitempty"`
}

// API is the resolved graph: three append-only arenas addressed by
// insertion-order handles, plus the root path. Handles are only meaningful
// within the parse that produced them.
type API struct {
	Crates []Crate `json:"crates"`
	Paths  []Path  `json:"paths"`
	Items  []Item  `json:"items"`
	Root   PathID  `json:"root"`
}

// Crate returns the arena entry for a crate handle.
func (a *API) Crate(id CrateID) *Crate { return &a.Crates[id] }

// Path returns the arena entry for a path handle.
func (a *API) Path(id PathID) *Path { return &a.Paths[id] }

// Item returns the arena entry for an item handle.
func (a *API) Item(id ItemID) *Item { return &a.Items[id] }

func (a *API) addCrate(c Crate) CrateID {
	a.Crates = append(a.Crates, c)
	return CrateID(len(a.Crates) - 1)
}

func (a *API) addPath(p Path) PathID {
	a.Paths = append(a.Paths, p)
	return PathID(len(a.Paths) - 1)
}

func (a *API) addItem(i Item) ItemID {
	a.Items = append(a.Items, i)
	return ItemID(len(a.Items) - 1)
}
