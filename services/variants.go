package services

import (
	"fmt"
	"strings"

	"github.com/dvrpc/traffic-counts-api/models"
	"github.com/dvrpc/traffic-counts-api/repository"
)

// Variant is how one kind of count is stored. Every report dispatches through
// it instead of branching on sub-kind labels.
type Variant interface {
	// VolumeTable is the table summed for volume reports; ok is false when
	// the count has no volume data in the database.
	VolumeTable() (table string, ok bool)
	// HasClasses reports whether a per-class breakdown exists.
	HasClasses() bool
	// StaticPDF is the reference document of counts kept outside the database.
	StaticPDF(md *models.Metadata) *string
}

type volumeVariant struct {
	table string
}

func (v volumeVariant) VolumeTable() (string, bool)      { return v.table, true }
func (volumeVariant) HasClasses() bool                   { return false }
func (volumeVariant) StaticPDF(*models.Metadata) *string { return nil }

// classVariant is a vehicle count that also recorded per-class totals. Its
// volume still comes from the vehicle volume table.
type classVariant struct {
	volumeVariant
}

func (classVariant) HasClasses() bool { return true }

type staticVariant struct {
	baseURL string
}

func (staticVariant) VolumeTable() (string, bool) { return "", false }
func (staticVariant) HasClasses() bool            { return false }

func (v staticVariant) StaticPDF(md *models.Metadata) *string {
	subKind := strings.ReplaceAll(md.SubKindLabel(), " ", "")
	url := fmt.Sprintf("%s/%s/%d.PDF", strings.TrimRight(v.baseURL, "/"), subKind, md.RecordNum)
	return &url
}

// unknownVariant covers sub-kinds missing from the catalog: no data, no document.
type unknownVariant struct{}

func (unknownVariant) VolumeTable() (string, bool)        { return "", false }
func (unknownVariant) HasClasses() bool                   { return false }
func (unknownVariant) StaticPDF(*models.Metadata) *string { return nil }

// Variants picks the storage variant of a resolved record.
type Variants struct {
	catalog *models.Catalog
	static  staticVariant
}

func NewVariants(catalog *models.Catalog, staticPDFBaseURL string) *Variants {
	return &Variants{catalog: catalog, static: staticVariant{baseURL: staticPDFBaseURL}}
}

func (v *Variants) For(md *models.Metadata) Variant {
	subKind := md.SubKindLabel()
	kind, ok := v.catalog.Classify(subKind)
	if !ok {
		return unknownVariant{}
	}

	switch kind {
	case models.KindVehicle:
		vehicle := volumeVariant{table: repository.TableVehicleVolume}
		if subKind == models.SubKindClass {
			return classVariant{vehicle}
		}
		return vehicle
	case models.KindBicycle:
		return volumeVariant{table: repository.TableBicycle}
	case models.KindPedestrian:
		return volumeVariant{table: repository.TablePedestrian}
	case models.KindNoData:
		return v.static
	}
	return unknownVariant{}
}
