package wardrobe

import (
	"errors"
	"path/filepath"
	"testing"

	"outfitmem/outfit"

	"github.com/google/go-cmp/cmp"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "wardrobe.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleOutfit() *outfit.Outfit {
	o := outfit.New()
	o.Model = outfit.ModelFreemodeFemale
	o.Blend.ShapeFirstID = 21
	o.Blend.ShapeMix = 0.25
	o.SetComponent(outfit.ComponentHair, outfit.Component{Drawable: 23, Texture: 4})
	o.SetComponent(outfit.ComponentLegs, outfit.Component{Drawable: 21, Texture: 3})
	o.SetComponent(outfit.ComponentJacket, outfit.Component{Drawable: -1})
	o.SetProp(outfit.PropHead, outfit.Prop{Drawable: 8, Texture: 2})
	o.SetProp(outfit.PropHip, outfit.EmptyProp())
	return o
}

func TestSaveGet(t *testing.T) {
	s := newStore(t)
	o := sampleOutfit()

	e, err := s.Save("heist", KindSaved, o)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if e.ID == "" || e.CreatedAt.IsZero() {
		t.Fatalf("Save returned %+v", e)
	}

	got, err := s.Get(e.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if got.Name != "heist" || got.Kind != KindSaved || got.Model != outfit.ModelFreemodeFemale {
		t.Errorf("Get metadata = %+v", got)
	}
	if diff := cmp.Diff(o, got.Outfit); diff != "" {
		t.Errorf("stored outfit (-want +got):\n%s", diff)
	}
}

func TestSaveSnapshotsTheOutfit(t *testing.T) {
	s := newStore(t)
	o := sampleOutfit()

	e, err := s.Save("before", KindBackup, o)
	if err != nil {
		t.Fatal(err)
	}
	o.SetComponent(outfit.ComponentHair, outfit.Component{Drawable: 1})

	if c, _ := e.Outfit.Component(outfit.ComponentHair); c.Drawable != 23 {
		t.Errorf("returned entry aliases the caller's outfit")
	}
}

func TestListLatestDelete(t *testing.T) {
	s := newStore(t)

	var ids []string
	for _, name := range []string{"one", "two", "three"} {
		e, err := s.Save(name, KindBackup, sampleOutfit())
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, e.ID)
	}
	if _, err := s.Save("keeper", KindSaved, sampleOutfit()); err != nil {
		t.Fatal(err)
	}

	backups, err := s.List(KindBackup)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var names []string
	for _, e := range backups {
		names = append(names, e.Name)
		if e.Outfit != nil {
			t.Errorf("List decoded the outfit body of %s", e.ID)
		}
	}
	if diff := cmp.Diff([]string{"three", "two", "one"}, names); diff != "" {
		t.Errorf("List order (-want +got):\n%s", diff)
	}

	all, err := s.List("")
	if err != nil || len(all) != 4 {
		t.Errorf("List all = %d entries, %v", len(all), err)
	}

	latest, err := s.Latest(KindBackup)
	if err != nil || latest.ID != ids[2] {
		t.Errorf("Latest = %+v, %v", latest, err)
	}

	if err := s.Delete(ids[2]); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ids[2]); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete err = %v", err)
	}
	if _, err := s.Get(ids[2]); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get deleted err = %v", err)
	}

	latest, err = s.Latest(KindBackup)
	if err != nil || latest.ID != ids[1] {
		t.Errorf("Latest after delete = %+v, %v", latest, err)
	}
}

func TestPrune(t *testing.T) {
	s := newStore(t)

	for i := 0; i < 5; i++ {
		if _, err := s.Save("auto", KindBackup, sampleOutfit()); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.Save("keeper", KindSaved, sampleOutfit()); err != nil {
		t.Fatal(err)
	}

	n, err := s.Prune(KindBackup, 2)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if n != 3 {
		t.Errorf("Prune removed %d, want 3", n)
	}

	backups, _ := s.List(KindBackup)
	saved, _ := s.List(KindSaved)
	if len(backups) != 2 || len(saved) != 1 {
		t.Errorf("after prune: %d backups, %d saved", len(backups), len(saved))
	}
}

func TestLatestEmpty(t *testing.T) {
	s := newStore(t)
	if _, err := s.Latest(KindBackup); !errors.Is(err, ErrNotFound) {
		t.Errorf("Latest on empty store err = %v", err)
	}
}
