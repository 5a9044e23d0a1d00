package registry

import (
	"testing"

	"github.com/wikicurator/artbot/internal/model"
)

func findStatements(plan []Statement, property string) []Statement {
	var out []Statement
	for _, stmt := range plan {
		if stmt.Property == property {
			out = append(out, stmt)
		}
	}
	return out
}

func hasQualifier(stmt Statement, property string) (Value, bool) {
	for _, q := range stmt.Qualifiers {
		if q.Property == property {
			return q.Value, true
		}
	}
	return Value{}, false
}

func baseRecord() *model.UploadRecord {
	return &model.UploadRecord{
		ID:             "B1981.25.51",
		IDProperty:     "P217",
		CollectionQID:  "Q6352575",
		LocationQID:    "Q6352575",
		InstanceOfQIDs: []string{"Q3305213"},
		CreatorQID:     "Q213854",
		URL:            "https://collections.example.org/work/51",
		RefURL:         "https://collections.example.org/work/51",
		IDRefURL:       "https://collections.example.org/work/51",
		Title:          map[string]string{"en": "Mares and Foals"},
	}
}

func TestPlan_IdentifierQualifiedWithCollection(t *testing.T) {
	plan := Plan(baseRecord())

	ids := findStatements(plan, "P217")
	if len(ids) != 1 {
		t.Fatalf("got %d id statements, want 1", len(ids))
	}
	if ids[0].Value.Text != "B1981.25.51" {
		t.Errorf("id value = %q", ids[0].Value.Text)
	}
	qual, ok := hasQualifier(ids[0], PropCollection)
	if !ok || qual.QID != "Q6352575" {
		t.Errorf("id statement missing collection qualifier: %+v", ids[0].Qualifiers)
	}
}

func TestPlan_ExtraIdentifier(t *testing.T) {
	rec := baseRecord()
	rec.ExtraCollectionQID = "Q1201549"
	rec.ExtraID = "B1981.25.51b"

	ids := findStatements(Plan(rec), "P217")
	if len(ids) != 2 {
		t.Fatalf("got %d id statements, want 2", len(ids))
	}
}

func TestPlan_MadeInAndGenre(t *testing.T) {
	rec := baseRecord()
	rec.MadeInQID = "Q21"
	rec.GenreQID = "Q134307"

	plan := Plan(rec)
	made := findStatements(plan, PropMadeIn)
	if len(made) != 1 || made[0].Value.QID != "Q21" {
		t.Errorf("made-in statements = %+v", made)
	}
	genre := findStatements(plan, PropGenre)
	if len(genre) != 1 || genre[0].Value.QID != "Q134307" {
		t.Errorf("genre statements = %+v", genre)
	}

	bare := Plan(baseRecord())
	if n := len(findStatements(bare, PropMadeIn)) + len(findStatements(bare, PropGenre)); n != 0 {
		t.Errorf("%d made-in/genre statements planned without the data", n)
	}
}

func TestPlan_AcquisitionQualifiesCollection(t *testing.T) {
	rec := baseRecord()
	rec.AcquisitionDate = "1981-06-26"

	colls := findStatements(Plan(rec), PropCollection)
	if len(colls) != 1 {
		t.Fatalf("got %d collection statements, want 1", len(colls))
	}
	qual, ok := hasQualifier(colls[0], PropStartTime)
	if !ok {
		t.Fatal("collection statement missing start time qualifier")
	}
	if qual.Year != 1981 || qual.Month != 6 || qual.Day != 26 || qual.Precision != PrecisionDay {
		t.Errorf("start time = %+v", qual)
	}
}

func TestPlan_MaterialQualifiers(t *testing.T) {
	rec := baseRecord()
	rec.Materials = map[string]bool{
		"Q296955":   false, // oil
		"Q12321255": true,  // canvas, carries the paint
	}

	materials := findStatements(Plan(rec), PropMaterialUsed)
	if len(materials) != 2 {
		t.Fatalf("got %d material statements, want 2", len(materials))
	}

	for _, stmt := range materials {
		qual, ok := hasQualifier(stmt, PropAppliesToPart)
		switch stmt.Value.QID {
		case "Q12321255":
			if !ok || qual.QID != ItemPaintingSurface {
				t.Errorf("canvas missing painting surface qualifier: %+v", stmt.Qualifiers)
			}
		case "Q296955":
			if ok {
				t.Errorf("oil should not carry an applies-to-part qualifier")
			}
		default:
			t.Errorf("unexpected material %q", stmt.Value.QID)
		}
	}
}

func TestPlan_Dimensions(t *testing.T) {
	rec := baseRecord()
	rec.HeightCM = "101,6"
	rec.WidthCM = "127.0"

	heights := findStatements(Plan(rec), PropHeight)
	if len(heights) != 1 || heights[0].Value.Amount != "101.6" {
		t.Errorf("height = %+v, want 101.6 (comma normalized)", heights)
	}
	if widths := findStatements(Plan(rec), PropWidth); len(widths) != 1 {
		t.Errorf("got %d width statements, want 1", len(widths))
	}
	if depths := findStatements(Plan(rec), PropThickness); len(depths) != 0 {
		t.Errorf("got %d depth statements, want 0", len(depths))
	}
	if heights[0].Value.UnitQID != ItemCentimetre {
		t.Errorf("height unit = %q", heights[0].Value.UnitQID)
	}
}

func TestPlan_ImageSuggestion(t *testing.T) {
	rec := baseRecord()
	rec.CreatorName = "George Stubbs"
	rec.Image = &model.ImageSuggestion{
		URL:         "https://media.example.org/full.jpg",
		SourceURL:   "https://collections.example.org/work/51",
		FormatQID:   "Q2195",
		LicenseQID:  "Q6938433",
		OperatorQID: "Q6352575",
	}

	images := findStatements(Plan(rec), PropImageSuggested)
	if len(images) != 1 {
		t.Fatalf("got %d image statements, want 1", len(images))
	}
	img := images[0]
	if img.Value.Text != "https://media.example.org/full.jpg" {
		t.Errorf("image url = %q", img.Value.Text)
	}
	for _, want := range []string{PropImageFormat, PropLicense, PropOperator, PropImageSource, PropTitle, PropAuthorName} {
		if _, ok := hasQualifier(img, want); !ok {
			t.Errorf("image statement missing %s qualifier", want)
		}
	}
}

func TestInceptionStatement(t *testing.T) {
	tests := []struct {
		name          string
		inc           *model.Inception
		wantYear      int
		wantPrecision int
		wantQuals     []string
	}{
		{
			name:          "exact year",
			inc:           &model.Inception{Kind: model.InceptionExact, Year: 1884},
			wantYear:      1884,
			wantPrecision: PrecisionYear,
		},
		{
			name:          "circa year",
			inc:           &model.Inception{Kind: model.InceptionExactApprox, Year: 1884},
			wantYear:      1884,
			wantPrecision: PrecisionYear,
			wantQuals:     []string{PropCircumstances},
		},
		{
			name:          "after year",
			inc:           &model.Inception{Kind: model.InceptionExactAfter, Year: 1884},
			wantYear:      1884,
			wantPrecision: PrecisionCentury,
			wantQuals:     []string{PropEarliestDate},
		},
		{
			name:          "same decade span",
			inc:           &model.Inception{Kind: model.InceptionRange, Start: 1884, End: 1886},
			wantYear:      1885,
			wantPrecision: PrecisionDecade,
			wantQuals:     []string{PropEarliestDate, PropLatestDate},
		},
		{
			name:          "century straddling span",
			inc:           &model.Inception{Kind: model.InceptionRange, Start: 1690, End: 1700},
			wantYear:      1695,
			wantPrecision: PrecisionCentury,
			wantQuals:     []string{PropEarliestDate, PropLatestDate},
		},
		{
			name:          "circa span",
			inc:           &model.Inception{Kind: model.InceptionRangeApprox, Start: 1884, End: 1886},
			wantYear:      1885,
			wantPrecision: PrecisionDecade,
			wantQuals:     []string{PropEarliestDate, PropLatestDate, PropCircumstances},
		},
		{
			name:          "collapsed span",
			inc:           &model.Inception{Kind: model.InceptionRange, Start: 1884, End: 1884},
			wantYear:      1884,
			wantPrecision: PrecisionYear,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt, ok := inceptionStatement(tt.inc, "https://example.org")
			if !ok {
				t.Fatal("no statement planned")
			}
			if stmt.Value.Year != tt.wantYear {
				t.Errorf("year = %d, want %d", stmt.Value.Year, tt.wantYear)
			}
			if stmt.Value.Precision != tt.wantPrecision {
				t.Errorf("precision = %d, want %d", stmt.Value.Precision, tt.wantPrecision)
			}
			if len(stmt.Qualifiers) != len(tt.wantQuals) {
				t.Fatalf("got %d qualifiers, want %d: %+v", len(stmt.Qualifiers), len(tt.wantQuals), stmt.Qualifiers)
			}
			for i, want := range tt.wantQuals {
				if stmt.Qualifiers[i].Property != want {
					t.Errorf("qualifier[%d] = %s, want %s", i, stmt.Qualifiers[i].Property, want)
				}
			}
		})
	}

	if _, ok := inceptionStatement(nil, ""); ok {
		t.Error("nil inception should plan nothing")
	}
}

func TestRangePrecision(t *testing.T) {
	tests := []struct {
		start, end int
		want       int
	}{
		{1884, 1886, PrecisionDecade},
		{1880, 1890, PrecisionCentury},
		{1690, 1700, PrecisionCentury},
		{1850, 1950, PrecisionMillennium},
		{1990, 2000, PrecisionCentury},
		{1999, 2000, PrecisionCentury},
		{999, 1001, PrecisionTenMillennia},
	}

	for _, tt := range tests {
		if got := rangePrecision(tt.start, tt.end); got != tt.want {
			t.Errorf("rangePrecision(%d, %d) = %d, want %d", tt.start, tt.end, got, tt.want)
		}
	}
}
