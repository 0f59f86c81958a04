package db

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/jcdickinson/crategraph/internal/api"
)

func testAPI() *api.API {
	crate := api.CrateID(0)
	item := api.ItemID(0)
	name := "f"
	return &api.API{
		Crates: []api.Crate{{Name: "depcrate"}},
		Paths: []api.Path{
			{Kind: api.KindModule, Name: "lib", Children: []api.PathID{1}},
			{Kind: api.KindFunction, Name: "lib::f", Crate: &crate, Item: &item},
		},
		Items: []api.Item{{Crate: &crate, Name: &name}},
		Root:  0,
	}
}

func openTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "graphs.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestSaveAndListPaths(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)

	if err := database.SaveAPI("lib", testAPI()); err != nil {
		t.Fatalf("SaveAPI: %v", err)
	}

	paths, err := database.ListPaths("lib", "")
	if err != nil {
		t.Fatalf("ListPaths: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected 2 paths, got %d", len(paths))
	}
	if paths[0].Name != "lib" || paths[0].HasItem {
		t.Errorf("path 0 = %+v", paths[0])
	}
	if paths[1].Name != "lib::f" || !paths[1].HasItem {
		t.Errorf("path 1 = %+v", paths[1])
	}

	functions, err := database.ListPaths("lib", "function")
	if err != nil {
		t.Fatalf("ListPaths(kind): %v", err)
	}
	if len(functions) != 1 || functions[0].Kind != "function" {
		t.Errorf("filtered paths = %+v", functions)
	}
}

func TestSaveReplacesExisting(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)

	if err := database.SaveAPI("lib", testAPI()); err != nil {
		t.Fatalf("first SaveAPI: %v", err)
	}
	if err := database.SaveAPI("lib", testAPI()); err != nil {
		t.Fatalf("second SaveAPI: %v", err)
	}

	graphs, err := database.ListGraphs()
	if err != nil {
		t.Fatalf("ListGraphs: %v", err)
	}
	if len(graphs) != 1 {
		t.Fatalf("expected 1 graph after replace, got %d", len(graphs))
	}
	if graphs[0].Package != "lib" || graphs[0].Paths != 2 || graphs[0].Items != 1 {
		t.Errorf("graph info = %+v", graphs[0])
	}
}

func TestListPaths_Unknown(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)

	_, err := database.ListPaths("ghost", "")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestDeleteGraph(t *testing.T) {
	t.Parallel()

	database := openTestDB(t)

	if err := database.SaveAPI("lib", testAPI()); err != nil {
		t.Fatalf("SaveAPI: %v", err)
	}
	if err := database.DeleteGraph("lib"); err != nil {
		t.Fatalf("DeleteGraph: %v", err)
	}

	graphs, err := database.ListGraphs()
	if err != nil {
		t.Fatalf("ListGraphs: %v", err)
	}
	if len(graphs) != 0 {
		t.Errorf("expected no graphs, got %d", len(graphs))
	}

	// Deleting a package that is not stored is a no-op.
	if err := database.DeleteGraph("ghost"); err != nil {
		t.Fatalf("DeleteGraph(ghost): %v", err)
	}
}
