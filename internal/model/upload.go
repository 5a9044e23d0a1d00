package model

// ImageSuggestion is a candidate image that can be copied to the media
// repository, with the qualifiers the registry wants alongside it
type ImageSuggestion struct {
	URL         string `json:"url" yaml:"url"`
	SourceURL   string `json:"source_url" yaml:"source_url"`
	FormatQID   string `json:"format_qid,omitempty" yaml:"format_qid,omitempty"`
	LicenseQID  string `json:"license_qid,omitempty" yaml:"license_qid,omitempty"`
	OperatorQID string `json:"operator_qid,omitempty" yaml:"operator_qid,omitempty"`
	Force       bool   `json:"force,omitempty" yaml:"force,omitempty"`
	Upgrade     bool   `json:"upgrade,omitempty" yaml:"upgrade,omitempty"`
}

// UploadRecord is an upload-ready record: the source record folded together
// with the normalized metadata, everything the registry client needs to
// create or update one item.
type UploadRecord struct {
	ID         string `json:"id" yaml:"id"`                   // accession number
	IDProperty string `json:"id_property" yaml:"id_property"` // registry property holding the accession number

	CollectionQID   string `json:"collection_qid" yaml:"collection_qid"`
	CollectionShort string `json:"collection_short" yaml:"collection_short"`
	LocationQID     string `json:"location_qid,omitempty" yaml:"location_qid,omitempty"`

	InstanceOfQIDs []string `json:"instance_of_qids" yaml:"instance_of_qids"`

	CreatorQID  string `json:"creator_qid,omitempty" yaml:"creator_qid,omitempty"`
	CreatorName string `json:"creator_name,omitempty" yaml:"creator_name,omitempty"`

	Labels       map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	Descriptions map[string]string `json:"descriptions,omitempty" yaml:"descriptions,omitempty"`
	Title        map[string]string `json:"title,omitempty" yaml:"title,omitempty"`

	URL             string   `json:"url" yaml:"url"`
	RefURL          string   `json:"ref_url,omitempty" yaml:"ref_url,omitempty"`
	IDRefURL        string   `json:"id_ref_url,omitempty" yaml:"id_ref_url,omitempty"`
	DescribedByURLs []string `json:"described_by_urls,omitempty" yaml:"described_by_urls,omitempty"`
	ImageSourceURL  string   `json:"image_source_url,omitempty" yaml:"image_source_url,omitempty"`

	Inception *Inception      `json:"inception,omitempty" yaml:"inception,omitempty"`
	Materials map[string]bool `json:"materials,omitempty" yaml:"materials,omitempty"` // identifier -> paint-bearing

	MadeInQID string `json:"made_in_qid,omitempty" yaml:"made_in_qid,omitempty"` // location of creation
	GenreQID  string `json:"genre_qid,omitempty" yaml:"genre_qid,omitempty"`

	HeightCM string `json:"height_cm,omitempty" yaml:"height_cm,omitempty"`
	WidthCM  string `json:"width_cm,omitempty" yaml:"width_cm,omitempty"`
	DepthCM  string `json:"depth_cm,omitempty" yaml:"depth_cm,omitempty"`

	Image           *ImageSuggestion `json:"image,omitempty" yaml:"image,omitempty"`
	IIIFManifestURL string           `json:"iiif_manifest_url,omitempty" yaml:"iiif_manifest_url,omitempty"`
	AcquisitionDate string           `json:"acquisition_date,omitempty" yaml:"acquisition_date,omitempty"`

	ExtraCollectionQID string `json:"extra_collection_qid,omitempty" yaml:"extra_collection_qid,omitempty"`
	ExtraID            string `json:"extra_id,omitempty" yaml:"extra_id,omitempty"`
}

// EnrichURLs fills the derived URL fields from the primary URL so every
// reference has something to point at
func (r *UploadRecord) EnrichURLs() {
	if r.RefURL == "" {
		r.RefURL = r.URL
	}
	if r.IDRefURL == "" {
		r.IDRefURL = r.RefURL
	}
	if len(r.DescribedByURLs) == 0 && r.URL != "" {
		r.DescribedByURLs = []string{r.URL}
	}
	if r.ImageSourceURL == "" && r.URL != "" {
		r.ImageSourceURL = r.URL
	}
	if len(r.Labels) == 0 && len(r.Title) > 0 {
		r.Labels = make(map[string]string, len(r.Title))
		for lang, title := range r.Title {
			r.Labels[lang] = title
		}
	}
}
