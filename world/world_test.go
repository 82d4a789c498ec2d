package world

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/beevik/etree"
	"github.com/jakecoffman/cp"

	"github.com/swift2d/swift/assets"
	"github.com/swift2d/swift/ecs"
	"github.com/swift2d/swift/ecs/component"
	"github.com/swift2d/swift/script"
)

func scriptWorld(w *World) script.World {
	return w
}

const questSource = `
start := func(w) {
	state.ticks = 0
}
update := func(w) {
	state.ticks += 1
	if state.ticks >= 3 {
		done = true
	}
}
`

// newTestAssets builds a manager from a temp resource tree containing
// the given scripts.
func newTestAssets(t *testing.T, scripts map[string]string) *assets.Manager {
	t.Helper()
	dir := t.TempDir()
	scriptsDir := filepath.Join(dir, "scripts")
	if err := os.MkdirAll(scriptsDir, 0o755); err != nil {
		t.Fatal(err)
	}
	for name, src := range scripts {
		if err := os.WriteFile(filepath.Join(scriptsDir, name+".tengo"), []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	m := assets.NewManager()
	if err := m.LoadResourceFolder(dir); err != nil {
		t.Fatal(err)
	}
	return m
}

func newTestWorld(t *testing.T, name string, width, height float64) *World {
	t.Helper()
	return NewWorld(name, cp.Vector{X: width, Y: height}, assets.NewManager(), t.TempDir())
}

func addPhysicalEntity(t *testing.T, w *World, pos, size cp.Vector) *ecs.Entity {
	t.Helper()
	e := w.AddEntity()
	if !e.Add(component.TagPhysical) {
		t.Fatal("Add Physical failed")
	}
	p := ecs.MustGet[*component.Physical](e, component.TagPhysical)
	p.Position = pos
	p.Size = size
	return e
}

func scriptTicks(t *testing.T, m *assets.Manager, name string) int64 {
	t.Helper()
	s, err := m.Script(name)
	if err != nil {
		t.Fatal(err)
	}
	ticks, ok := s.Var("state").Map()["ticks"].(int64)
	if !ok {
		t.Fatalf("state.ticks = %v", s.Var("state").Map()["ticks"])
	}
	return ticks
}

func TestSaveLoadRoundTrip(t *testing.T) {
	savesDir := t.TempDir()
	am := assets.NewManager()

	w := NewWorld("town", cp.Vector{X: 100, Y: 100}, am, savesDir)
	addPhysicalEntity(t, w, cp.Vector{X: 10, Y: 10}, cp.Vector{X: 5, Y: 5})
	if err := w.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	restored := NewWorld("town", cp.Vector{X: 100, Y: 100}, am, savesDir)
	if err := restored.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	if restored.EntityCount() != 1 {
		t.Fatalf("expected 1 entity, got %d", restored.EntityCount())
	}
	e := restored.Entities()[0]
	if !e.Has(component.TagPhysical) {
		t.Fatal("restored entity has no Physical component")
	}
	p := ecs.MustGet[*component.Physical](e, component.TagPhysical)
	if p.Position != (cp.Vector{X: 10, Y: 10}) || p.Size != (cp.Vector{X: 5, Y: 5}) {
		t.Fatalf("restored physical = %+v", p)
	}
}

func TestLoadLeavesDrawablePending(t *testing.T) {
	savesDir := t.TempDir()
	am := assets.NewManager()

	w := NewWorld("town", cp.Vector{X: 100, Y: 100}, am, savesDir)
	e := w.AddEntity()
	if !e.Add(component.TagDrawable) {
		t.Fatal("Add Drawable failed")
	}
	ecs.MustGet[*component.Drawable](e, component.TagDrawable).Texture = "hero"
	if err := w.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	// the manager has no "hero" texture, so the drawable must come back
	// pending instead of failing the load
	restored := NewWorld("town", cp.Vector{X: 100, Y: 100}, am, savesDir)
	if err := restored.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	if restored.EntityCount() != 1 {
		t.Fatalf("expected 1 entity, got %d", restored.EntityCount())
	}
	d, ok := ecs.Get[*component.Drawable](restored.Entities()[0], component.TagDrawable)
	if !ok {
		t.Fatal("restored entity has no Drawable component")
	}
	if d.Texture != "hero" {
		t.Fatalf("restored texture = %q, want %q", d.Texture, "hero")
	}
	if d.Image() != nil {
		t.Fatal("drawable should stay pending until its texture is loaded")
	}
}

func TestSaveIsDeterministic(t *testing.T) {
	w := newTestWorld(t, "stable", 100, 100)
	e := addPhysicalEntity(t, w, cp.Vector{X: 1, Y: 2}, cp.Vector{X: 3, Y: 4})
	e.Add(component.TagMovable)
	e.Add(component.TagName)
	ecs.MustGet[*component.Name](e, component.TagName).Value = "hero"

	var first []byte
	for i := 0; i < 5; i++ {
		if err := w.Save(); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		data, err := os.ReadFile(w.SavePath())
		if err != nil {
			t.Fatal(err)
		}
		if first == nil {
			first = data
			continue
		}
		if !bytes.Equal(first, data) {
			t.Fatalf("save %d differs from the first:\n%s\n%s", i, first, data)
		}
	}
}

func TestSaveOmitsEmptyVariables(t *testing.T) {
	w := newTestWorld(t, "empties", 10, 10)
	e := w.AddEntity()
	e.Add(component.TagName) // no value set, nothing to emit
	if err := w.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromFile(w.SavePath()); err != nil {
		t.Fatalf("read save: %v", err)
	}
	nameEl := doc.FindElement("/world/entity/Name")
	if nameEl == nil {
		t.Fatal("Name component element missing")
	}
	if len(nameEl.ChildElements()) != 0 {
		t.Fatalf("expected no variable leaves, got %d", len(nameEl.ChildElements()))
	}
}

func TestLoadFailures(t *testing.T) {
	t.Run("missing_file", func(t *testing.T) {
		w := newTestWorld(t, "nowhere", 10, 10)
		if err := w.Load(); err == nil {
			t.Fatal("expected error for missing save file")
		}
		if w.EntityCount() != 0 {
			t.Fatalf("world should stay empty, got %d entities", w.EntityCount())
		}
	})

	t.Run("missing_root", func(t *testing.T) {
		w := newTestWorld(t, "badroot", 10, 10)
		doc := etree.NewDocument()
		doc.CreateElement("universe")
		if err := os.MkdirAll(filepath.Dir(w.SavePath()), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := doc.WriteToFile(w.SavePath()); err != nil {
			t.Fatal(err)
		}
		if err := w.Load(); err == nil {
			t.Fatal("expected error for missing world root")
		}
		if w.EntityCount() != 0 {
			t.Fatalf("world should stay empty, got %d entities", w.EntityCount())
		}
	})

	t.Run("unknown_component_skipped", func(t *testing.T) {
		w := newTestWorld(t, "unknowncomp", 10, 10)
		doc := etree.NewDocument()
		root := doc.CreateElement("world")
		entity := root.CreateElement("entity")
		entity.CreateElement("Teleporter").CreateElement("charge").SetText("9")
		physical := entity.CreateElement("Physical")
		physical.CreateElement("posX").SetText("3")
		if err := os.MkdirAll(filepath.Dir(w.SavePath()), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := doc.WriteToFile(w.SavePath()); err != nil {
			t.Fatal(err)
		}

		if err := w.Load(); err != nil {
			t.Fatalf("load: %v", err)
		}
		if w.EntityCount() != 1 {
			t.Fatalf("expected 1 entity, got %d", w.EntityCount())
		}
		e := w.Entities()[0]
		if e.Has("Teleporter") {
			t.Fatal("unknown component should not be attached")
		}
		p := ecs.MustGet[*component.Physical](e, component.TagPhysical)
		if p.Position.X != 3 {
			t.Fatalf("physical posX = %v", p.Position.X)
		}
	})
}

func TestTickDeterminism(t *testing.T) {
	build := func() *World {
		w := newTestWorld(t, "det", 1000, 1000)
		for i := 0; i < 3; i++ {
			e := addPhysicalEntity(t, w, cp.Vector{X: float64(i) * 10, Y: 5}, cp.Vector{X: 4, Y: 4})
			e.Add(component.TagMovable)
			ecs.MustGet[*component.Movable](e, component.TagMovable).Velocity = cp.Vector{X: 1.5, Y: -0.5}
		}
		return w
	}

	snapshot := func(w *World) []map[string]map[string]string {
		var out []map[string]map[string]string
		for _, e := range w.Entities() {
			comps := map[string]map[string]string{}
			for tag, c := range e.Components() {
				comps[tag] = c.Serialize()
			}
			out = append(out, comps)
		}
		return out
	}

	a, b := build(), build()
	for i := 0; i < 10; i++ {
		a.Update(1.0 / 60)
		b.Update(1.0 / 60)
	}

	if !reflect.DeepEqual(snapshot(a), snapshot(b)) {
		t.Fatalf("same inputs diverged:\n%v\n%v", snapshot(a), snapshot(b))
	}
}

func TestEntitiesAround(t *testing.T) {
	cases := []struct {
		name   string
		entity cp.Vector
		pos    cp.Vector
		radius float64
		want   int
	}{
		{"within_radius", cp.Vector{X: 12, Y: 10}, cp.Vector{X: 10, Y: 10}, 5, 1},
		{"outside_radius", cp.Vector{X: 16, Y: 10}, cp.Vector{X: 10, Y: 10}, 5, 0},
		{"boundary_included", cp.Vector{X: 13, Y: 14}, cp.Vector{X: 10, Y: 10}, 5, 1}, // distance exactly 5
		{"zero_radius", cp.Vector{X: 10, Y: 10}, cp.Vector{X: 10, Y: 10}, 0, 0},
		{"negative_radius", cp.Vector{X: 10, Y: 10}, cp.Vector{X: 10, Y: 10}, -1, 0},
		{"pos_outside_world", cp.Vector{X: 10, Y: 10}, cp.Vector{X: 150, Y: 10}, 5, 0},
		{"pos_on_far_edge", cp.Vector{X: 10, Y: 10}, cp.Vector{X: 100, Y: 10}, 5, 0}, // extent is half-open
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := newTestWorld(t, "around", 100, 100)
			addPhysicalEntity(t, w, c.entity, cp.Vector{X: 1, Y: 1})

			// an entity without a physical component is never returned
			w.AddEntity().Add(component.TagName)

			got := w.EntitiesAround(c.pos, c.radius)
			if len(got) != c.want {
				t.Fatalf("EntitiesAround(%v, %v) = %d entities, want %d", c.pos, c.radius, len(got), c.want)
			}
		})
	}
}

func TestRemoveEntity(t *testing.T) {
	w := newTestWorld(t, "rm", 10, 10)
	for i := 0; i < 3; i++ {
		w.AddEntity()
	}

	cases := []struct {
		name      string
		index     int
		ok        bool
		remaining int
	}{
		{"middle", 1, true, 2},
		{"negative_counts_from_end", -1, true, 1},
		{"out_of_range", 5, false, 1},
		{"negative_out_of_range", -4, false, 1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := w.RemoveEntity(c.index); got != c.ok {
				t.Fatalf("RemoveEntity(%d) = %v, want %v", c.index, got, c.ok)
			}
			if w.EntityCount() != c.remaining {
				t.Fatalf("entity count = %d, want %d", w.EntityCount(), c.remaining)
			}
		})
	}
}

func TestScriptAttachDetach(t *testing.T) {
	am := newTestAssets(t, map[string]string{"quest1": questSource})
	w := NewWorld("town", cp.Vector{X: 100, Y: 100}, am, t.TempDir())

	if !w.AddScript("quest1") {
		t.Fatal("AddScript should attach a loadable script")
	}
	if w.AddScript("quest1") {
		t.Fatal("AddScript should be idempotent")
	}
	if w.AddScript("missing") {
		t.Fatal("AddScript should fail for an unknown script")
	}
	if !w.RemoveScript("quest1") {
		t.Fatal("RemoveScript should detach an attached script")
	}
	if w.RemoveScript("quest1") {
		t.Fatal("RemoveScript should be a no-op when detached")
	}

	s, err := am.Script("quest1")
	if err != nil {
		t.Fatal(err)
	}
	if s.World() != nil {
		t.Fatal("detached script should have a nil world reference")
	}
}

func TestScriptLifecycleInWorld(t *testing.T) {
	am := newTestAssets(t, map[string]string{"quest1": questSource})
	w := NewWorld("town", cp.Vector{X: 100, Y: 100}, am, t.TempDir())

	if !w.AddScript("quest1") {
		t.Fatal("AddScript failed")
	}

	for tick := 1; tick <= 2; tick++ {
		w.Update(1.0 / 60)
		if !w.HasScript("quest1") {
			t.Fatalf("script detached too early at tick %d", tick)
		}
		if got := scriptTicks(t, am, "quest1"); got != int64(tick) {
			t.Fatalf("tick %d: state.ticks = %d", tick, got)
		}
	}

	// third tick: the script reports done and is detached after the scan
	w.Update(1.0 / 60)
	if w.HasScript("quest1") {
		t.Fatal("done script should be detached")
	}
	if got := scriptTicks(t, am, "quest1"); got != 3 {
		t.Fatalf("state.ticks = %d, want 3", got)
	}

	// fourth tick: no further updates reach the script
	w.Update(1.0 / 60)
	if got := scriptTicks(t, am, "quest1"); got != 3 {
		t.Fatalf("detached script was updated again: state.ticks = %d", got)
	}
}

func TestCloseClearsScriptWorlds(t *testing.T) {
	const idle = `
start := func(w) {}
update := func(w) {}
`
	am := newTestAssets(t, map[string]string{
		"quest1": idle,
		"quest2": idle,
		"quest3": idle,
	})
	w := NewWorld("town", cp.Vector{X: 100, Y: 100}, am, t.TempDir())

	names := []string{"quest1", "quest2", "quest3"}
	for _, name := range names {
		if !w.AddScript(name) {
			t.Fatalf("AddScript(%q) failed", name)
		}
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	for _, name := range names {
		s, err := am.Script(name)
		if err != nil {
			t.Fatal(err)
		}
		if s.World() != nil {
			t.Fatalf("script %q still references the closed world", name)
		}
	}

	if _, err := os.Stat(w.SavePath()); err != nil {
		t.Fatalf("close should have saved the world: %v", err)
	}
}

func TestScriptAttachmentRepair(t *testing.T) {
	const idle = `
start := func(w) {}
update := func(w) {}
`
	am := newTestAssets(t, map[string]string{"shared": idle})

	a := NewWorld("a", cp.Vector{X: 10, Y: 10}, am, t.TempDir())
	b := NewWorld("b", cp.Vector{X: 10, Y: 10}, am, t.TempDir())

	if !a.AddScript("shared") || !b.AddScript("shared") {
		t.Fatal("AddScript failed")
	}

	s, err := am.Script("shared")
	if err != nil {
		t.Fatal(err)
	}

	a.Update(1.0 / 60)
	if s.World() != scriptWorld(a) {
		t.Fatal("tick on world a should repair the back-reference to a")
	}

	b.Update(1.0 / 60)
	if s.World() != scriptWorld(b) {
		t.Fatal("tick on world b should repair the back-reference to b")
	}
}
