package model

import (
	"fmt"
	"sort"

	"ttc/model/styles"
)

// CellResolution is the root cell grid used to interpret cell lengths.
type CellResolution struct {
	Rows    int
	Columns int
}

// PixelResolution is the extent of the root container in pixels. Used only
// by format writers.
type PixelResolution struct {
	Width  int
	Height int
}

// ActiveArea is the fraction of the root container guaranteed visible,
// expressed as offsets and size in [0..1]. Used only by format writers.
type ActiveArea struct {
	LeftOffset float64
	TopOffset  float64
	Width      float64
	Height     float64
}

// Document owns the body tree and the region registry, carries per-property
// initial value overrides and the global metadata writers need. It is not
// safe for concurrent mutation; once construction completes it can be
// shared freely between concurrent ISD builds.
type Document struct {
	body     *Element
	regions  map[string]*Element
	initials map[styles.Property]styles.Value

	lang   string
	cells  CellResolution
	pixels *PixelResolution
	active *ActiveArea
}

func NewDocument() *Document {
	return &Document{
		regions: make(map[string]*Element),
		cells:   CellResolution{Rows: 15, Columns: 32},
	}
}

func (d *Document) Lang() string { return d.lang }

// SetLang sets the document language, the default for the whole body tree.
func (d *Document) SetLang(lang string) {
	d.lang = lang
	if d.body != nil {
		d.body.inheritDefaults(lang, d.body.space)
	}
}

func (d *Document) CellResolution() CellResolution { return d.cells }

func (d *Document) SetCellResolution(c CellResolution) error {
	if c.Rows <= 0 || c.Columns <= 0 {
		return fmt.Errorf("%w: cell resolution %dx%d", ErrStructure, c.Columns, c.Rows)
	}
	d.cells = c
	return nil
}

func (d *Document) PixelResolution() (PixelResolution, bool) {
	if d.pixels == nil {
		return PixelResolution{}, false
	}
	return *d.pixels, true
}

func (d *Document) SetPixelResolution(p PixelResolution) error {
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("%w: pixel resolution %dx%d", ErrStructure, p.Width, p.Height)
	}
	d.pixels = &p
	return nil
}

func (d *Document) ActiveArea() (ActiveArea, bool) {
	if d.active == nil {
		return ActiveArea{}, false
	}
	return *d.active, true
}

func (d *Document) SetActiveArea(a ActiveArea) error {
	if a.Width < 0 || a.Height < 0 || a.LeftOffset < 0 || a.TopOffset < 0 ||
		a.LeftOffset+a.Width > 1 || a.TopOffset+a.Height > 1 {
		return fmt.Errorf("%w: active area out of root container", ErrStructure)
	}
	d.active = &a
	return nil
}

// Body returns the body root, nil until SetBody.
func (d *Document) Body() *Element { return d.body }

func (d *Document) SetBody(body *Element) error {
	if body == nil {
		d.body = nil
		return nil
	}
	if body.kind != KindBody {
		return fmt.Errorf("%w: document body must be a body node, got %s", ErrStructure, body.kind)
	}
	if body.doc != d {
		return fmt.Errorf("%w: body belongs to a different document", ErrStructure)
	}
	d.body = body
	body.inheritDefaults(d.lang, body.space)
	return nil
}

// PutRegion registers a region. Region ids are unique within a document.
func (d *Document) PutRegion(region *Element) error {
	if region == nil || region.kind != KindRegion {
		return fmt.Errorf("%w: not a region", ErrStructure)
	}
	if region.doc != d {
		return fmt.Errorf("%w: region %q belongs to a different document", ErrStructure, region.id)
	}
	if prev, ok := d.regions[region.id]; ok && prev != region {
		return fmt.Errorf("%w: duplicate region id %q", ErrStructure, region.id)
	}
	d.regions[region.id] = region
	return nil
}

func (d *Document) RemoveRegion(id string) {
	delete(d.regions, id)
}

func (d *Document) Region(id string) (*Element, bool) {
	r, ok := d.regions[id]
	return r, ok
}

// Regions returns registered regions ordered by id so that every walk over
// a document is deterministic.
func (d *Document) Regions() []*Element {
	out := make([]*Element, 0, len(d.regions))
	for _, r := range d.regions {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id < out[j].id })
	return out
}

// SetInitialValue overrides the registry initial value of a property for
// this document. A nil value removes the override.
func (d *Document) SetInitialValue(p styles.Property, v styles.Value) error {
	if v == nil {
		delete(d.initials, p)
		return nil
	}
	if !styles.Validate(p, v) {
		return fmt.Errorf("%w: initial %s = %s", ErrInvalidStyle, p, v)
	}
	if d.initials == nil {
		d.initials = make(map[styles.Property]styles.Value)
	}
	d.initials[p] = v
	return nil
}

// InitialValue returns the document override for the property when present,
// the registry initial value otherwise.
func (d *Document) InitialValue(p styles.Property) styles.Value {
	if v, ok := d.initials[p]; ok {
		return v
	}
	return styles.Initial(p)
}

// InitialValueOverrides returns the overridden properties in registry
// order.
func (d *Document) InitialValueOverrides() []styles.Property {
	out := make([]styles.Property, 0, len(d.initials))
	for _, p := range styles.Properties() {
		if _, ok := d.initials[p]; ok {
			out = append(out, p)
		}
	}
	return out
}
