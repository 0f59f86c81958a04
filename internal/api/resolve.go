package api

import (
	"strings"

	"github.com/jcdickinson/crategraph/internal/rustdoc"
)

// work is one pending visit: a raw id and the path handle of the container
// it was reached from, if any.
type work struct {
	parent *PathID
	id     int
}

// deferredImport is a re-export recorded during traversal and materialized
// only after the main queue drains, so the target is resolved even when it
// is declared later than the import.
type deferredImport struct {
	parent PathID
	name   string
	target int
}

type resolver struct {
	doc *rustdoc.Crate
	api *API

	// Memo tables from raw identifiers to handles. A present nil entry is
	// a cached negative result; both outcomes are memoized so repeat
	// visits never recompute or re-create anything.
	crates map[int]*CrateID
	paths  map[int]*PathID
	items  map[int]*ItemID

	queue    []work
	deferred []deferredImport
	rootSet  bool
}

// Resolve turns a rustdoc document into an API graph. It runs a
// breadth-first pass over the container-membership tree starting at the
// document root, then a deferred pass that materializes re-export aliases.
// The call is synchronous and owns all of its state; the returned graph is
// never mutated afterwards.
func Resolve(doc *rustdoc.Crate) (*API, error) {
	r := &resolver{
		doc:    doc,
		api:    &API{},
		crates: make(map[int]*CrateID),
		paths:  make(map[int]*PathID),
		items:  make(map[int]*ItemID),
	}

	r.queue = append(r.queue, work{id: doc.Root})
	for len(r.queue) > 0 {
		w := r.queue[0]
		r.queue = r.queue[1:]
		if err := r.resolve(w); err != nil {
			return nil, err
		}
	}

	for _, imp := range r.deferred {
		r.resolveImport(imp)
	}

	return r.api, nil
}

func (r *resolver) resolve(w work) error {
	item, ok := r.doc.Lookup(w.id)
	if !ok {
		return contractf("id %d enqueued but missing from the index", w.id)
	}

	crate := r.resolveCrate(item.CrateID)

	own, err := r.resolvePath(w.id, w.parent, crate, item.Span)
	if err != nil {
		return err
	}

	// An id without its own path-table entry (a struct field, an impl
	// block) lives at its enclosing container's path.
	effective := own
	if effective == nil {
		effective = w.parent
	}

	return r.resolveItem(w.id, &item, crate, own, effective)
}

// resolveCrate memoizes raw crate numbers. Number 0 is the analyzed crate
// itself and resolves to nothing.
func (r *resolver) resolveCrate(crateID int) *CrateID {
	if cached, ok := r.crates[crateID]; ok {
		return cached
	}

	if crateID == 0 {
		r.crates[crateID] = nil
		return nil
	}

	handle := r.api.addCrate(Crate{Name: r.doc.ExternalCrateName(crateID)})
	r.crates[crateID] = &handle
	return &handle
}

// resolvePath memoizes raw ids to path handles. Ids with a path-table
// entry get a new Path appended under the parent; the first Path created
// in a parse becomes the root. Ids without an entry resolve to nothing.
func (r *resolver) resolvePath(id int, parent *PathID, crate *CrateID, span *rustdoc.Span) (*PathID, error) {
	if cached, ok := r.paths[id]; ok {
		return cached, nil
	}

	summary, ok := r.doc.Path(id)
	if !ok {
		r.paths[id] = nil
		return nil, nil
	}

	kind, err := classify(summary.Kind)
	if err != nil {
		return nil, err
	}

	handle := r.api.addPath(Path{
		Kind:  kind,
		Name:  strings.Join(summary.Path, "::"),
		Crate: crate,
		Span:  span,
	})
	if parent != nil {
		r.api.Paths[*parent].Children = append(r.api.Paths[*parent].Children, handle)
	}
	if !r.rootSet {
		r.api.Root = handle
		r.rootSet = true
	}

	r.paths[id] = &handle
	return &handle, nil
}

// resolveItem memoizes raw ids to item handles. Containers enqueue their
// members and produce no item; imports record a deferred task; everything
// else defines a concrete item here.
func (r *resolver) resolveItem(id int, item *rustdoc.Item, crate *CrateID, own, effective *PathID) error {
	if _, ok := r.items[id]; ok {
		return nil
	}

	switch item.Kind() {
	case "module", "trait", "impl", "enum":
		r.items[id] = nil
		for _, member := range item.Members() {
			r.queue = append(r.queue, work{parent: effective, id: member})
		}

	case "use", "import":
		r.items[id] = nil
		use, ok := item.Import()
		if !ok || use.Target == nil {
			// Re-export of something with no id (a primitive, an
			// unresolved external) — nothing to alias.
			return nil
		}
		// Visit the target now so the deferred pass finds it resolved.
		r.queue = append(r.queue, work{parent: effective, id: *use.Target})
		if effective != nil {
			r.deferred = append(r.deferred, deferredImport{
				parent: *effective,
				name:   use.Name,
				target: *use.Target,
			})
		}

	default:
		if !r.rootSet {
			return contractf("item %d resolved before the root path was established", id)
		}
		handle := r.api.addItem(Item{Crate: crate, Name: item.Name, Span: item.Span})
		r.items[id] = &handle
		if own != nil {
			r.api.Paths[*own].Item = &handle
		}
	}

	return nil
}

// resolveImport aliases the target's definition and substructure under a
// new import path in the re-exporting module. The alias and the original
// are distinct arena entries sharing the same item handle; the child list
// is copied, not shared, so the two paths stay independent.
func (r *resolver) resolveImport(imp deferredImport) {
	target, ok := r.paths[imp.target]
	if !ok || target == nil {
		// The target never acquired a namespace slot of its own.
		return
	}

	targetPath := r.api.Paths[*target]
	children := append([]PathID(nil), targetPath.Children...)

	handle := r.api.addPath(Path{
		Kind:     KindImport,
		Name:     r.api.Paths[imp.parent].Name + "::" + imp.name,
		Crate:    r.api.Paths[imp.parent].Crate,
		Item:     targetPath.Item,
		Children: children,
	})
	r.api.Paths[imp.parent].Children = append(r.api.Paths[imp.parent].Children, handle)
}
