package depsolver

import "testing"

func TestNewGraphIsEmpty(t *testing.T) {
	g := NewGraph()
	if g.Len() != 0 {
		t.Errorf("Len() = %d, want 0", g.Len())
	}
	if g.Has("app1") {
		t.Error("empty graph should not have app1")
	}
}

func TestAddPackageVersionIsImmutable(t *testing.T) {
	g1 := NewGraph()
	g2 := g1.AddPackageVersion("app1", "1.0.0")

	if g1.Has("app1") {
		t.Error("original graph was mutated by AddPackageVersion")
	}
	if !g2.Has("app1") {
		t.Error("returned graph should have app1")
	}
	if g1.Len() != 0 {
		t.Errorf("original graph Len() = %d, want 0", g1.Len())
	}
	if g2.Len() != 1 {
		t.Errorf("new graph Len() = %d, want 1", g2.Len())
	}
}

func TestAddPackageVersionMergesConstraints(t *testing.T) {
	g := NewGraph()
	g = g.AddPackageVersion("app1", "1.0.0", Eq("app2", "1.0.0"))
	g = g.AddPackageVersion("app1", "1.0.0", Eq("app2", "1.0.0"), GTE("app3", "2.0.0"))

	versions := g.Versions("app1")
	if len(versions) != 1 {
		t.Fatalf("expected one merged version entry, got %d", len(versions))
	}
	if len(versions[0].Constraints) != 2 {
		t.Fatalf("expected duplicate constraint to be deduped, got %d constraints", len(versions[0].Constraints))
	}
}

func TestAddPackageVersionAppendsDistinctVersions(t *testing.T) {
	g := NewGraph()
	g = g.AddPackageVersion("app1", "1.0.0")
	g = g.AddPackageVersion("app1", "1.1.0")

	versions := g.Versions("app1")
	if len(versions) != 2 {
		t.Fatalf("expected two version entries, got %d", len(versions))
	}
	if versions[0].Version.String() != "1.0.0" || versions[1].Version.String() != "1.1.0" {
		t.Errorf("declaration order not preserved: got %s, %s", versions[0].Version, versions[1].Version)
	}
}

func TestPackagesReturnsSortedNames(t *testing.T) {
	g := NewGraph().
		AddPackageVersion("zeta", "1.0.0").
		AddPackageVersion("alpha", "1.0.0").
		AddPackageVersion("mid", "1.0.0")

	names := g.Packages()
	want := []string{"alpha", "mid", "zeta"}
	if len(names) != len(want) {
		t.Fatalf("got %d names, want %d", len(names), len(want))
	}
	for i, n := range names {
		if string(n) != want[i] {
			t.Errorf("Packages()[%d] = %s, want %s", i, n, want[i])
		}
	}
}

func TestAddPackagesBulk(t *testing.T) {
	g := NewGraph().AddPackages([]RawPackageSpec{
		{
			Name: "app1",
			Versions: []RawVersionSpec{
				{Version: "1.0.0", Constraints: []RawConstraint{GTE("app2", "1.0.0")}},
			},
		},
		{
			Name: "app2",
			Versions: []RawVersionSpec{
				{Version: "1.0.0"},
			},
		},
	})

	if g.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", g.Len())
	}
	if !g.Has("app1") || !g.Has("app2") {
		t.Error("expected both app1 and app2 present")
	}
}
