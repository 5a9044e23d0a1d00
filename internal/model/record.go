package model

// Website is a per-locale link to an artwork page on the collection's site
type Website struct {
	URL map[string]string `json:"url"` // locale -> URL
}

// Artwork is one flat catalogue record as supplied by the record source.
// Free-text fields (Date, Medium, Title, ...) are keyed by locale.
type Artwork struct {
	ArtworkID       string            `json:"artworkId"`
	AccessionNumber string            `json:"accessionNumber"`
	ArtistID        string            `json:"artistId"`
	Category        string            `json:"category"`
	PrettyID        map[string]string `json:"prettyId,omitempty"`
	Title           map[string]string `json:"title,omitempty"`
	Description     map[string]string `json:"description,omitempty"`
	ArtistName      map[string]string `json:"artistName,omitempty"` // override like "Probably by Rembrandt"
	Date            map[string]string `json:"date,omitempty"`
	Medium          map[string]string `json:"medium,omitempty"`
	Websites        []Website         `json:"websites,omitempty"`
	DimensionUnit   string            `json:"dimensionUnit,omitempty"`
	DimensionHeight float64           `json:"dimensionHeight,omitempty"`
	DimensionWidth  float64           `json:"dimensionWidth,omitempty"`
	DimensionDepth  float64           `json:"dimensionDepth,omitempty"`
	PublicImageURL  string            `json:"publicUrl,omitempty"`
	IIIFManifestURL string            `json:"iiifManifest,omitempty"`
	AcquisitionDate string            `json:"acquisitionDate,omitempty"`
}

// Artist is a creator record from the record source
type Artist struct {
	ArtistID string            `json:"artistId"`
	Name     map[string]string `json:"name"`
	QID      string            `json:"artistQid,omitempty"` // knowledge-base item, if known
}

// Venue describes a collection and its knowledge-base identity
type Venue struct {
	VenueID       string `json:"venueId"`
	Name          string `json:"name,omitempty"`
	CollectionQID string `json:"collectionQid"`
	ShortName     string `json:"shortName,omitempty"`
}
