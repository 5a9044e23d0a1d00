package assemble

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/wikicurator/artbot/internal/model"
	"github.com/wikicurator/artbot/internal/normalize"
	"github.com/wikicurator/artbot/internal/source"
)

// tmsRe pulls the TMS number out of a collection page URL. TMS numbers
// identify works in the venue's own management system and appear in some
// older media repository uploads instead of accession numbers.
var tmsRe = regexp.MustCompile(`^.*tms:(\d+)$`)

// qidRe recognizes a well-formed item id
var qidRe = regexp.MustCompile(`Q\d+`)

const (
	anonymousCreatorQID = "Q4233718"

	// Image suggestion qualifiers: catalogue images are JPEG and the
	// public-domain ones are released under CC0
	imageFormatJPEG = "Q2195"
	imageLicenseCC0 = "Q6938433"

	maxTitleLen = 200
)

// anonymousArtistIDs are the master records the catalogue files unknown
// makers under
var anonymousArtistIDs = map[string]bool{
	"MASTER_ArtistUnk": true,
	"MASTER_MakerUnk":  true,
}

// SkipError explains why a record was left out of a load. Skips are
// expected and logged; they never abort a batch.
type SkipError struct {
	ArtworkID string
	Reason    string
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("skip %s: %s", e.ArtworkID, e.Reason)
}

func skip(artworkID, format string, args ...any) error {
	return &SkipError{ArtworkID: artworkID, Reason: fmt.Sprintf(format, args...)}
}

// IsSkip reports whether err is a per-record skip rather than a real failure
func IsSkip(err error) bool {
	var skipErr *SkipError
	return errors.As(err, &skipErr)
}

// Options tune a load run
type Options struct {
	Locale         string // record source locale, e.g. en-GB
	Language       string // label/description language, e.g. en
	IDProperty     string
	GalleryBaseURL string // public gallery page prefix for pretty ids
	FilterCategory string // only assemble works of this category
	Update         bool   // allow works already in the registry
	NoImageUpload  bool
}

// Assembler folds catalogue records together with normalized metadata into
// upload-ready records, applying the per-record skip rules along the way
type Assembler struct {
	venue      *model.Venue
	artists    map[string]model.Artist
	lists      *source.Lists
	existing   map[string]string // accession number -> registry item
	extractor  *normalize.MediumExtractor
	categories Categories
	opts       Options
}

// New creates an assembler for one venue's load
func New(venue *model.Venue, artists map[string]model.Artist, lists *source.Lists,
	existing map[string]string, extractor *normalize.MediumExtractor,
	categories Categories, opts Options) *Assembler {
	if opts.Language == "" {
		opts.Language = languageOf(opts.Locale)
	}
	return &Assembler{
		venue:      venue,
		artists:    artists,
		lists:      lists,
		existing:   existing,
		extractor:  extractor,
		categories: categories,
		opts:       opts,
	}
}

// Assemble turns one catalogue record into an upload-ready record. A nil
// record with a SkipError means the work was rejected by a skip rule;
// any other error is a real failure.
func (a *Assembler) Assemble(artwork *model.Artwork) (*model.UploadRecord, error) {
	id := artwork.ArtworkID

	if a.lists != nil && a.lists.SmallImages[id] {
		return nil, skip(id, "image too small")
	}

	if !a.opts.Update {
		if qid, ok := a.existing[artwork.AccessionNumber]; ok {
			return nil, skip(id, "already in registry as %s", qid)
		}
	}

	// Only public-domain works are loaded; the catalogue flags them in
	// the description text
	if !strings.Contains(artwork.Description[a.opts.Locale], "free to use") {
		return nil, skip(id, "not public domain")
	}

	pageURL := a.websiteURL(artwork)
	if pageURL == "" {
		return nil, skip(id, "no website URL")
	}

	prettyID := artwork.PrettyID[a.opts.Locale]
	if prettyID == "" {
		return nil, skip(id, "no pretty id")
	}

	if artwork.Category == "Miscellaneous" {
		return nil, skip(id, "category is Miscellaneous")
	}
	categoryQIDs := a.categories.QIDs(artwork.Category)
	if len(categoryQIDs) == 0 {
		return nil, skip(id, "no item mapping for category %q", artwork.Category)
	}

	if a.lists != nil {
		if ref, ok := a.lists.ExistingMedia[artwork.AccessionNumber]; ok {
			return nil, skip(id, "already in media repository at %s", ref.URL)
		}
		if m := tmsRe.FindStringSubmatch(pageURL); m != nil {
			if ref, ok := a.lists.ExistingMedia[m[1]]; ok {
				return nil, skip(id, "tms %s already in media repository at %s", m[1], ref.URL)
			}
		}
	}

	if a.opts.FilterCategory != "" && artwork.Category != a.opts.FilterCategory {
		return nil, skip(id, "category %q filtered out", artwork.Category)
	}

	rec := &model.UploadRecord{
		ID:              artwork.AccessionNumber,
		IDProperty:      a.opts.IDProperty,
		CollectionQID:   a.venue.CollectionQID,
		CollectionShort: a.venue.ShortName,
		LocationQID:     a.venue.CollectionQID,
		InstanceOfQIDs:  categoryQIDs,
		URL:             pageURL,
		IIIFManifestURL: artwork.IIIFManifestURL,
		AcquisitionDate: artwork.AcquisitionDate,
	}
	rec.DescribedByURLs = []string{pageURL}
	if a.opts.GalleryBaseURL != "" {
		rec.DescribedByURLs = append(rec.DescribedByURLs, strings.TrimRight(a.opts.GalleryBaseURL, "/")+"/"+prettyID)
	}

	title := artwork.Title[a.opts.Locale]
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen]
	}
	if title != "" {
		rec.Title = map[string]string{a.opts.Language: title}
	}

	if err := a.fillCreator(artwork, rec); err != nil {
		return nil, err
	}

	if err := a.fillInception(artwork, rec); err != nil {
		return nil, err
	}

	if err := a.fillMaterials(artwork, rec); err != nil {
		return nil, err
	}

	a.fillDimensions(artwork, rec)
	a.fillImage(artwork, rec)

	rec.EnrichURLs()
	return rec, nil
}

// fillCreator resolves the artist and builds the description. Unknown
// makers are recorded explicitly as anonymous; artists without a known
// registry item skip the work.
func (a *Assembler) fillCreator(artwork *model.Artwork, rec *model.UploadRecord) error {
	artist, ok := a.artists[artwork.ArtistID]
	if !ok {
		return skip(artwork.ArtworkID, "unknown artist %q", artwork.ArtistID)
	}
	artistName := artist.Name[a.opts.Locale]

	// The record can carry an attribution override like
	// "Probably by Rembrandt"
	overrideName := artwork.ArtistName[a.opts.Locale]
	if overrideName == "" {
		overrideName = artistName
	}

	if anonymousArtistIDs[artist.ArtistID] {
		rec.CreatorQID = anonymousCreatorQID
		rec.CreatorName = "anonymous"
		rec.Descriptions = map[string]string{
			a.opts.Language: describe(artwork.Category, "anonymous artist or maker", ""),
		}
		return nil
	}

	if !qidRe.MatchString(artist.QID) {
		return skip(artwork.ArtworkID, "no registry item for artist %s", artist.ArtistID)
	}

	rec.CreatorQID = artist.QID
	rec.CreatorName = artistName
	rec.Descriptions = map[string]string{
		a.opts.Language: describe(artwork.Category, artistName, overrideName),
	}
	return nil
}

// fillInception normalizes the free-text date. A missing date is fine; an
// unparseable one skips the work so it can be fixed in the catalogue.
func (a *Assembler) fillInception(artwork *model.Artwork, rec *model.UploadRecord) error {
	inception, err := normalize.Date(artwork.Date[a.opts.Locale])
	if err != nil {
		var unparseable *normalize.UnparseableDateError
		if errors.As(err, &unparseable) {
			return skip(artwork.ArtworkID, "could not parse date %q", unparseable.Text)
		}
		return err
	}
	rec.Inception = inception
	return nil
}

// fillMaterials runs the medium extractor. A work whose medium text yields
// nothing is skipped; every upload should say what the work is made of.
func (a *Assembler) fillMaterials(artwork *model.Artwork, rec *model.UploadRecord) error {
	medium := artwork.Medium[a.opts.Locale]
	materials := a.extractor.Extract(medium)
	if len(materials) == 0 {
		return skip(artwork.ArtworkID, "no materials recognized in %q", medium)
	}
	rec.Materials = materials
	return nil
}

func (a *Assembler) fillDimensions(artwork *model.Artwork, rec *model.UploadRecord) {
	format := func(v float64) string {
		if v == 0 {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	rec.HeightCM = format(artwork.DimensionHeight)
	rec.WidthCM = format(artwork.DimensionWidth)
	rec.DepthCM = format(artwork.DimensionDepth)
}

func (a *Assembler) fillImage(artwork *model.Artwork, rec *model.UploadRecord) {
	if artwork.PublicImageURL == "" || a.opts.NoImageUpload {
		return
	}
	rec.Image = &model.ImageSuggestion{
		URL:         artwork.PublicImageURL,
		SourceURL:   rec.URL,
		FormatQID:   imageFormatJPEG,
		LicenseQID:  imageLicenseCC0,
		OperatorQID: a.venue.CollectionQID,
	}
}

func (a *Assembler) websiteURL(artwork *model.Artwork) string {
	if len(artwork.Websites) == 0 {
		return ""
	}
	return artwork.Websites[0].URL[a.opts.Locale]
}

// languageOf reduces a locale like en-GB to its language code
func languageOf(locale string) string {
	if idx := strings.IndexByte(locale, '-'); idx >= 0 {
		return locale[:idx]
	}
	return locale
}
