package models

import "sort"

// CountKind is the broad grouping of a count: what was counted, or whether the
// data lives in the database at all.
type CountKind string

const (
	KindVehicle    CountKind = "vehicle"
	KindBicycle    CountKind = "bicycle"
	KindPedestrian CountKind = "pedestrian"
	KindNoData     CountKind = "count data not in database"
)

// Sub-kinds that need special handling beyond their CountKind.
const (
	SubKindClass = "Class"
)

// Catalog maps the sub-kind labels of tc_header.type onto their CountKind.
// It is immutable once built.
type Catalog struct {
	byLabel map[string]CountKind
	byKind  map[CountKind][]string
}

// NewCatalog builds a catalog from kind -> labels groups.
func NewCatalog(groups map[CountKind][]string) *Catalog {
	c := &Catalog{
		byLabel: make(map[string]CountKind),
		byKind:  make(map[CountKind][]string, len(groups)),
	}
	for kind, labels := range groups {
		copied := append([]string(nil), labels...)
		c.byKind[kind] = copied
		for _, label := range copied {
			c.byLabel[label] = kind
		}
	}
	return c
}

// DefaultCatalog returns the sub-kinds used by the count program.
// "8 Day" and "Loop" are being recategorized upstream but still appear in old records.
func DefaultCatalog() *Catalog {
	return NewCatalog(map[CountKind][]string{
		KindBicycle: {
			"Bicycle 1", "Bicycle 2", "Bicycle 3", "Bicycle 4", "Bicycle 5", "Bicycle 6",
		},
		KindPedestrian: {
			"Pedestrian", "Pedestrian 2",
		},
		KindVehicle: {
			"Volume", "15 min Volume", SubKindClass, "Speed", "8 Day", "Loop",
		},
		KindNoData: {
			"Turning Movement", "Manual Class", "Crosswalk",
		},
	})
}

// Classify returns the kind for a sub-kind label; ok is false for unknown labels.
func (c *Catalog) Classify(subKind string) (CountKind, bool) {
	kind, ok := c.byLabel[subKind]
	return kind, ok
}

// SubKinds returns the labels belonging to a kind.
func (c *Catalog) SubKinds(kind CountKind) []string {
	return append([]string(nil), c.byKind[kind]...)
}

// Kinds lists the known kinds in a stable order.
func (c *Catalog) Kinds() []CountKind {
	kinds := make([]CountKind, 0, len(c.byKind))
	for k := range c.byKind {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// ParseKind validates a kind given by a client.
func (c *Catalog) ParseKind(s string) (CountKind, bool) {
	kind := CountKind(s)
	_, ok := c.byKind[kind]
	return kind, ok
}
