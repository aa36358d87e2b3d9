// Copyright (c) DigitalLib
// SPDX-License-Identifier: MPL-2.0

package kramerius

// Field names the Solr index fields exposed by the Kramerius search API.
type Field string

const (
	FieldPID        Field = "pid"
	FieldParentPID  Field = "own_parent.pid"
	FieldRootPID    Field = "root.pid"
	FieldOwnPIDPath Field = "own_pid_path"

	FieldModel       Field = "model"
	FieldParentModel Field = "own_parent.model"
	FieldRootModel   Field = "root.model"
	FieldModelPath   Field = "own_model_path"
	FieldLevel       Field = "level"

	FieldInCollections       Field = "in_collections"
	FieldDirectInCollections Field = "in_collections.direct"
	FieldLicenses            Field = "licenses"
	FieldContainsLicenses    Field = "contains_licenses"
	FieldAncestralLicenses   Field = "licenses_of_ancestors"
	FieldAccessibility       Field = "accessibility"

	FieldBarcode          Field = "id_barcode"
	FieldSystemNumber     Field = "id_sysno"
	FieldNBN              Field = "id_ccnb"
	FieldISBN             Field = "id_isbn"
	FieldISSN             Field = "id_issn"
	FieldSignature        Field = "shelf_locators"
	FieldPhysicalLocation Field = "physical_locations.facet"

	FieldDateStr            Field = "date.str"
	FieldDateMin            Field = "date.min"
	FieldDateMax            Field = "date.max"
	FieldDateRangeStartYear Field = "date_range_start.year"
	FieldDateRangeEndYear   Field = "date_range_end.year"

	FieldTitle            Field = "title.search"
	FieldTitleSort        Field = "title.sort"
	FieldTitles           Field = "titles.search"
	FieldPartNumberSort   Field = "part.number.sort"
	FieldPartNumberString Field = "part.number.str"

	FieldPublishers        Field = "publishers.facet"
	FieldPublicationPlaces Field = "publication_places.facet"
	FieldLanguages         Field = "languages.facet"
	FieldKeywords          Field = "keywords.facet"

	FieldPageCount         Field = "count_page"
	FieldImageFullMimeType Field = "ds.img_full.mime"
	FieldIndexerVersion    Field = "indexer_version"
)

func (f Field) String() string { return string(f) }

// Model identifies the digital object type in the repository tree.
type Model string

const (
	ModelPeriodical       Model = "periodical"
	ModelPeriodicalVolume Model = "periodicalvolume"
	ModelPeriodicalItem   Model = "periodicalitem"
	ModelSupplement       Model = "supplement"
	ModelArticle          Model = "article"
	ModelMonograph        Model = "monograph"
	ModelMonographUnit    Model = "monographunit"
	ModelPage             Model = "page"
	ModelSheetmusic       Model = "sheetmusic"
	ModelConvolute        Model = "convolute"
	ModelCollection       Model = "collection"
	ModelInternalPart     Model = "internalpart"
	ModelTrack            Model = "track"
	ModelSoundUnit        Model = "soundunit"
	ModelSoundRecording   Model = "soundrecording"
	ModelMap              Model = "map"
	ModelGraphic          Model = "graphic"
	ModelArchive          Model = "archive"
	ModelManuscript       Model = "manuscript"
	ModelPicture          Model = "picture"
)

// Accessibility describes whether an object is publicly readable.
type Accessibility string

const (
	AccessibilityPublic  Accessibility = "public"
	AccessibilityPrivate Accessibility = "private"
)

// License is an access license label. The global licenses below are
// built into Kramerius; institutions may define additional ones, so any
// string value is valid on the wire.
type License = string

const (
	LicensePublic           License = "public"
	LicenseDNNTO            License = "dnnto"
	LicenseDNNTT            License = "dnntt"
	LicenseOnSite           License = "onsite"
	LicenseOnSiteSheetmusic License = "onsite-sheetmusic"
)
