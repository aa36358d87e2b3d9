// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package kramerius

// Document is one object record from the Kramerius search index. Field
// tags follow the Solr schema names; absent fields stay at their zero
// value.
type Document struct {
	PID        string `json:"pid,omitempty"`
	ParentPID  string `json:"own_parent.pid,omitempty"`
	RootPID    string `json:"root.pid,omitempty"`
	OwnPIDPath string `json:"own_pid_path,omitempty"`

	Model       Model  `json:"model,omitempty"`
	ParentModel Model  `json:"own_parent.model,omitempty"`
	RootModel   Model  `json:"root.model,omitempty"`
	ModelPath   string `json:"own_model_path,omitempty"`
	Level       *int   `json:"level,omitempty"`

	InCollections       []string      `json:"in_collections,omitempty"`
	DirectInCollections []string      `json:"in_collections.direct,omitempty"`
	Licenses            []License     `json:"licenses,omitempty"`
	ContainsLicenses    []License     `json:"contains_licenses,omitempty"`
	AncestralLicenses   []License     `json:"licenses_of_ancestors,omitempty"`
	Accessibility       Accessibility `json:"accessibility,omitempty"`

	SystemNumber     []string `json:"id_sysno,omitempty"`
	Barcode          []string `json:"id_barcode,omitempty"`
	NBN              []string `json:"id_ccnb,omitempty"`
	ISBN             []string `json:"id_isbn,omitempty"`
	ISSN             []string `json:"id_issn,omitempty"`
	Signature        []string `json:"shelf_locators,omitempty"`
	PhysicalLocation []string `json:"physical_locations.facet,omitempty"`

	DateMin            string `json:"date.min,omitempty"`
	DateMax            string `json:"date.max,omitempty"`
	DateRangeStartYear *int   `json:"date_range_start.year,omitempty"`
	DateRangeEndYear   *int   `json:"date_range_end.year,omitempty"`

	Title            string `json:"title.search,omitempty"`
	TitleSort        string `json:"title.sort,omitempty"`
	PartNumberSort   *int   `json:"part.number.sort,omitempty"`
	PartNumberString string `json:"part.number.str,omitempty"`

	Publishers        []string `json:"publishers.facet,omitempty"`
	PublicationPlaces []string `json:"publication_places.facet,omitempty"`
	Languages         []string `json:"languages.facet,omitempty"`
	Keywords          []string `json:"keywords.facet,omitempty"`

	PageCount         *int   `json:"count_page,omitempty"`
	ImageFullMimeType string `json:"ds.img_full.mime,omitempty"`
	IndexerVersion    string `json:"indexer_version,omitempty"`
}

// ISXN returns the document's ISBN identifiers, falling back to ISSN
// when no ISBN is recorded.
func (d *Document) ISXN() []string {
	if len(d.ISBN) > 0 {
		return d.ISBN
	}
	return d.ISSN
}
