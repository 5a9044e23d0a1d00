package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/wikicurator/artbot/internal/model"
)

// Qualifier is one qualifier on a planned statement
type Qualifier struct {
	Property string
	Value    Value
}

// Statement is one claim the uploader wants on an item. Statements are only
// added when the item has nothing for the property yet; existing claims are
// never overwritten.
type Statement struct {
	Property   string
	Value      Value
	Qualifiers []Qualifier
	RefURL     string // empty means no reference
	PerValue   bool   // the property can repeat; only an identical value covers it
}

// Plan maps an upload-ready record onto the statements its item should
// carry. Planning is pure so it can be inspected in trial mode before
// anything touches the registry.
func Plan(rec *model.UploadRecord) []Statement {
	var plan []Statement

	for _, qid := range rec.InstanceOfQIDs {
		plan = append(plan, Statement{
			Property: PropInstanceOf,
			Value:    ItemValue(qid),
			RefURL:   rec.RefURL,
		})
	}

	if rec.LocationQID != "" {
		plan = append(plan, Statement{
			Property: PropLocation,
			Value:    ItemValue(rec.LocationQID),
			RefURL:   rec.RefURL,
		})
	}

	if rec.CreatorQID != "" {
		plan = append(plan, Statement{
			Property: PropCreator,
			Value:    ItemValue(rec.CreatorQID),
			RefURL:   rec.RefURL,
		})
	}

	plan = append(plan, collectionStatement(rec))

	plan = append(plan, Statement{
		Property: rec.IDProperty,
		Value:    StringValue(rec.ID),
		Qualifiers: []Qualifier{
			{Property: PropCollection, Value: ItemValue(rec.CollectionQID)},
		},
		RefURL:   rec.IDRefURL,
		PerValue: true,
	})

	if rec.ExtraCollectionQID != "" && rec.ExtraID != "" {
		plan = append(plan, Statement{
			Property: rec.IDProperty,
			Value:    StringValue(rec.ExtraID),
			Qualifiers: []Qualifier{
				{Property: PropCollection, Value: ItemValue(rec.ExtraCollectionQID)},
			},
			RefURL:   rec.IDRefURL,
			PerValue: true,
		})
	}

	if stmt, ok := inceptionStatement(rec.Inception, rec.RefURL); ok {
		plan = append(plan, stmt)
	}

	if rec.MadeInQID != "" {
		plan = append(plan, Statement{
			Property: PropMadeIn,
			Value:    ItemValue(rec.MadeInQID),
			RefURL:   rec.RefURL,
		})
	}

	for lang, title := range rec.Title {
		plan = append(plan, Statement{
			Property: PropTitle,
			Value:    MonolingualValue(title, lang),
			RefURL:   rec.RefURL,
		})
	}

	if rec.GenreQID != "" {
		plan = append(plan, Statement{
			Property: PropGenre,
			Value:    ItemValue(rec.GenreQID),
			RefURL:   rec.RefURL,
		})
	}

	plan = append(plan, materialStatements(rec.Materials, rec.RefURL)...)
	plan = append(plan, dimensionStatements(rec)...)

	if rec.Image != nil {
		plan = append(plan, imageStatement(rec))
	}

	if rec.IIIFManifestURL != "" {
		plan = append(plan, Statement{
			Property: PropIIIFManifest,
			Value:    StringValue(rec.IIIFManifestURL),
		})
	}

	for _, described := range rec.DescribedByURLs {
		plan = append(plan, Statement{
			Property: PropDescribedAt,
			Value:    StringValue(described),
			PerValue: true,
		})
	}

	return plan
}

func collectionStatement(rec *model.UploadRecord) Statement {
	stmt := Statement{
		Property: PropCollection,
		Value:    ItemValue(rec.CollectionQID),
		RefURL:   rec.RefURL,
	}
	if year, month, day, ok := parseISODate(rec.AcquisitionDate); ok {
		stmt.Qualifiers = append(stmt.Qualifiers, Qualifier{
			Property: PropStartTime,
			Value:    DateValue(year, month, day),
		})
	}
	return stmt
}

// inceptionStatement converts a normalized creation date into a P571 claim.
// Exact years go in at year precision; spans go in at the coarsest precision
// the two endpoints share, centered on their average, with the real bounds
// carried as earliest/latest qualifiers.
func inceptionStatement(inc *model.Inception, refURL string) (Statement, bool) {
	if inc == nil {
		return Statement{}, false
	}

	stmt := Statement{Property: PropInception, RefURL: refURL}

	switch inc.Kind {
	case model.InceptionExact:
		stmt.Value = YearValue(inc.Year, PrecisionYear)

	case model.InceptionExactApprox:
		stmt.Value = YearValue(inc.Year, PrecisionYear)
		stmt.Qualifiers = append(stmt.Qualifiers, Qualifier{
			Property: PropCircumstances,
			Value:    ItemValue(ItemCirca),
		})

	case model.InceptionExactAfter:
		// Only the lower bound is known. Anchor the claim on the century
		// and let the qualifier carry the exact bound.
		stmt.Value = YearValue(inc.Year, PrecisionCentury)
		stmt.Qualifiers = append(stmt.Qualifiers, Qualifier{
			Property: PropEarliestDate,
			Value:    YearValue(inc.Year, PrecisionYear),
		})

	case model.InceptionRange, model.InceptionRangeApprox:
		if inc.Start == inc.End {
			stmt.Value = YearValue(inc.Start, PrecisionYear)
		} else {
			stmt.Value = YearValue((inc.Start+inc.End)/2, rangePrecision(inc.Start, inc.End))
			stmt.Qualifiers = append(stmt.Qualifiers,
				Qualifier{Property: PropEarliestDate, Value: YearValue(inc.Start, PrecisionYear)},
				Qualifier{Property: PropLatestDate, Value: YearValue(inc.End, PrecisionYear)},
			)
		}
		if inc.Kind == model.InceptionRangeApprox {
			stmt.Qualifiers = append(stmt.Qualifiers, Qualifier{
				Property: PropCircumstances,
				Value:    ItemValue(ItemCirca),
			})
		}

	default:
		return Statement{}, false
	}

	return stmt, true
}

// rangePrecision picks the coarsest precision that still distinguishes the
// span's endpoints. A span like 1690-1700 straddles a century boundary only
// on its closed upper end, so the end is also compared shifted down by one.
func rangePrecision(start, end int) int {
	if start < 1000 || end > 9999 {
		return PrecisionTenMillennia
	}

	s := fmt.Sprintf("%04d", start)
	e := fmt.Sprintf("%04d", end)
	lower := fmt.Sprintf("%04d", end-1)

	precision := PrecisionTenMillennia
	if s[0] == e[0] {
		precision = PrecisionMillennium
		if s[1] == e[1] {
			precision = PrecisionCentury
			if s[2] == e[2] {
				precision = PrecisionDecade
			}
		}
	}
	if s[0] == lower[0] {
		if precision < PrecisionMillennium {
			precision = PrecisionMillennium
		}
		if s[1] == lower[1] && precision < PrecisionCentury {
			precision = PrecisionCentury
		}
	}
	return precision
}

// materialStatements plans one P186 claim per extracted material. The
// paint-bearing flag marks the support the paint sits on, which gets an
// applies-to-part qualifier pointing at the painting surface.
func materialStatements(materials map[string]bool, refURL string) []Statement {
	ids := make([]string, 0, len(materials))
	for id := range materials {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	stmts := make([]Statement, 0, len(ids))
	for _, id := range ids {
		stmt := Statement{
			Property: PropMaterialUsed,
			Value:    ItemValue(id),
			RefURL:   refURL,
		}
		if materials[id] {
			stmt.Qualifiers = append(stmt.Qualifiers, Qualifier{
				Property: PropAppliesToPart,
				Value:    ItemValue(ItemPaintingSurface),
			})
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}

func dimensionStatements(rec *model.UploadRecord) []Statement {
	dims := []struct {
		property string
		value    string
	}{
		{PropHeight, rec.HeightCM},
		{PropWidth, rec.WidthCM},
		{PropThickness, rec.DepthCM},
	}

	var stmts []Statement
	for _, dim := range dims {
		if dim.value == "" {
			continue
		}
		amount := strings.ReplaceAll(dim.value, ",", ".")
		stmts = append(stmts, Statement{
			Property: dim.property,
			Value:    QuantityValue(amount, ItemCentimetre),
			RefURL:   rec.RefURL,
		})
	}
	return stmts
}

func imageStatement(rec *model.UploadRecord) Statement {
	img := rec.Image
	stmt := Statement{
		Property: PropImageSuggested,
		Value:    StringValue(img.URL),
	}

	addItem := func(property, qid string) {
		if qid != "" {
			stmt.Qualifiers = append(stmt.Qualifiers, Qualifier{Property: property, Value: ItemValue(qid)})
		}
	}
	addItem(PropImageFormat, img.FormatQID)
	addItem(PropLicense, img.LicenseQID)
	addItem(PropOperator, img.OperatorQID)

	if img.SourceURL != "" {
		stmt.Qualifiers = append(stmt.Qualifiers, Qualifier{
			Property: PropImageSource,
			Value:    StringValue(img.SourceURL),
		})
	}
	if lang, title, ok := primaryTitle(rec.Title); ok {
		stmt.Qualifiers = append(stmt.Qualifiers, Qualifier{
			Property: PropTitle,
			Value:    MonolingualValue(title, lang),
		})
	}
	if rec.CreatorName != "" {
		stmt.Qualifiers = append(stmt.Qualifiers, Qualifier{
			Property: PropAuthorName,
			Value:    StringValue(rec.CreatorName),
		})
	}
	return stmt
}

// primaryTitle picks a single title for qualifiers that only take one,
// preferring English
func primaryTitle(titles map[string]string) (lang, title string, ok bool) {
	if len(titles) == 0 {
		return "", "", false
	}
	if title, ok := titles["en"]; ok {
		return "en", title, true
	}
	langs := make([]string, 0, len(titles))
	for l := range titles {
		langs = append(langs, l)
	}
	sort.Strings(langs)
	return langs[0], titles[langs[0]], true
}

// parseISODate accepts CCYY-MM-DD
func parseISODate(s string) (year, month, day int, ok bool) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return 0, 0, 0, false
	}
	if _, err := fmt.Sscanf(s, "%04d-%02d-%02d", &year, &month, &day); err != nil {
		return 0, 0, 0, false
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, 0, 0, false
	}
	return year, month, day, true
}
