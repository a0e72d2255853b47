package outfit

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewDefaults(t *testing.T) {
	o := New()
	want := BlendData{SkinFirstID: 31, SkinSecondID: 43, SkinMix: 0.5}
	if diff := cmp.Diff(want, o.Blend); diff != "" {
		t.Errorf("blend mismatch (-want +got):\n%s", diff)
	}
	if len(o.Components) != 0 || len(o.Props) != 0 {
		t.Errorf("new outfit has slots: %v %v", o.Components, o.Props)
	}
	if o.IsFemale() {
		t.Errorf("zero model reported as female")
	}
}

func TestCloneIsDeep(t *testing.T) {
	o := New()
	o.Model = ModelFreemodeFemale
	o.SetComponent(ComponentTorso, Component{Drawable: 15, Texture: 2})
	o.SetProp(PropEyes, Prop{Drawable: 5, Texture: 1})

	c := o.Clone()
	if diff := cmp.Diff(o, c); diff != "" {
		t.Fatalf("clone differs (-orig +clone):\n%s", diff)
	}

	c.SetComponent(ComponentTorso, Component{Drawable: 1})
	c.SetProp(PropHead, EmptyProp())

	if got, _ := o.Component(ComponentTorso); got.Drawable != 15 {
		t.Errorf("clone write leaked into original: %+v", got)
	}
	if _, ok := o.Prop(PropHead); ok {
		t.Errorf("clone prop leaked into original")
	}
}

func TestValidateComponent(t *testing.T) {
	tests := []struct {
		c     Component
		valid bool
	}{
		{Component{Drawable: -1, Texture: 0}, true},
		{Component{Drawable: 999, Texture: 99}, true},
		{Component{Drawable: -2, Texture: 0}, false},
		{Component{Drawable: 1000, Texture: 0}, false},
		{Component{Drawable: 0, Texture: -1}, false},
		{Component{Drawable: 0, Texture: 100}, false},
	}
	for _, tc := range tests {
		if err := ValidateComponent(tc.c); (err == nil) != tc.valid {
			t.Errorf("ValidateComponent(%+v) = %v, want valid=%v", tc.c, err, tc.valid)
		}
	}
}

func TestValidateProp(t *testing.T) {
	tests := []struct {
		p     Prop
		valid bool
	}{
		{EmptyProp(), true},
		{Prop{Drawable: 499, Texture: 49}, true},
		{Prop{Drawable: 500, Texture: 0}, false},
		{Prop{Drawable: 0, Texture: 50}, false},
		{Prop{Drawable: 0, Texture: -2}, false},
	}
	for _, tc := range tests {
		if err := ValidateProp(tc.p); (err == nil) != tc.valid {
			t.Errorf("ValidateProp(%+v) = %v, want valid=%v", tc.p, err, tc.valid)
		}
	}
}

func TestOutfitValidate(t *testing.T) {
	o := New()
	o.Model = ModelFreemodeMale
	o.SetComponent(ComponentLegs, Component{Drawable: 4, Texture: 0})
	o.SetProp(PropHead, EmptyProp())
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	o.Model = 42
	o.Components[12] = Component{}
	o.SetProp(PropEars, Prop{Drawable: 900})
	if err := o.Validate(); err == nil {
		t.Fatal("Validate accepted bad outfit")
	}
}

func TestSlotNames(t *testing.T) {
	if s := ComponentSpecial2.String(); s != "special2" {
		t.Errorf("ComponentSpecial2 = %q", s)
	}
	if s := PropRightWrist.String(); s != "right_wrist" {
		t.Errorf("PropRightWrist = %q", s)
	}
	if s := ComponentSlot(12).String(); s != "component(12)" {
		t.Errorf("ComponentSlot(12) = %q", s)
	}
}
