// Package locations holds the fixed table of named campus points.
package locations

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atharv3903/campusnav/internal/model"
)

var (
	ErrDuplicate   = errors.New("locations: duplicate name")
	ErrEmptyName   = errors.New("locations: empty name")
	ErrInvalidSpot = errors.New("locations: coordinate out of range")
)

// Table maps labels to coordinates. It keeps insertion order and is never
// modified after New returns.
type Table struct {
	byName map[string]model.Coord
	list   []model.Location
}

func New(locs []model.Location) (*Table, error) {
	t := &Table{
		byName: make(map[string]model.Coord, len(locs)),
		list:   make([]model.Location, 0, len(locs)),
	}
	for _, l := range locs {
		if strings.TrimSpace(l.Name) == "" {
			return nil, ErrEmptyName
		}
		if !l.Valid() {
			return nil, fmt.Errorf("%w: %q (%v, %v)", ErrInvalidSpot, l.Name, l.Lat, l.Lon)
		}
		if _, ok := t.byName[l.Name]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicate, l.Name)
		}
		t.byName[l.Name] = l.Coord
		t.list = append(t.list, l)
	}
	return t, nil
}

func (t *Table) Lookup(name string) (model.Coord, bool) {
	c, ok := t.byName[name]
	return c, ok
}

// Labels returns the names in table order.
func (t *Table) Labels() []string {
	out := make([]string, len(t.list))
	for i, l := range t.list {
		out[i] = l.Name
	}
	return out
}

// All returns a copy of the table in order.
func (t *Table) All() []model.Location {
	return append([]model.Location(nil), t.list...)
}

func (t *Table) Len() int { return len(t.list) }
