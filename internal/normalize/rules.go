package normalize

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MaterialRule maps a text pattern to a material identifier. Paint marks
// paint-type materials; the flag is what later lets a surface inherit
// paint-bearing-ness, it is never emitted itself.
type MaterialRule struct {
	Pattern string `yaml:"pattern"`
	ID      string `yaml:"id"`
	Paint   bool   `yaml:"paint,omitempty"`
}

// SurfaceRule maps a text pattern to a support/surface identifier
type SurfaceRule struct {
	Pattern string `yaml:"pattern"`
	ID      string `yaml:"id"`
}

// Ruleset is the declarative rule table pair consumed by the extractor.
// Order is significant: most-specific-first, generic catch-all last.
// Appending entries preserves existing behavior as long as the new pattern
// does not overlap text an earlier rule consumes; prepending changes
// precedence and must be done deliberately.
type Ruleset struct {
	Materials []MaterialRule `yaml:"materials"`
	Surfaces  []SurfaceRule  `yaml:"surfaces"`
}

// LoadRuleset reads a rule table from a YAML file, for operators extending
// the built-in tables
func LoadRuleset(path string) (Ruleset, error) {
	var rs Ruleset

	data, err := os.ReadFile(path)
	if err != nil {
		return rs, fmt.Errorf("read rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return rs, fmt.Errorf("parse rules file: %w", err)
	}
	if len(rs.Materials) == 0 && len(rs.Surfaces) == 0 {
		return rs, fmt.Errorf("rules file %s defines no rules", path)
	}

	return rs, nil
}

// DefaultRuleset returns the built-in tables, covering the materials and
// surfaces observed in the source collection. Identifiers are knowledge-base
// items and are opaque to the extractor.
func DefaultRuleset() Ruleset {
	return Ruleset{Materials: defaultMaterials, Surfaces: defaultSurfaces}
}

var defaultMaterials = []MaterialRule{
	{Pattern: `Ancaster stone`, ID: "Q4752538"},
	{Pattern: `acrylic`, ID: "Q207849", Paint: true},
	{Pattern: `alabaster`, ID: "Q143447"},
	{Pattern: `albumen\s+print`, ID: "Q580807"},
	{Pattern: `aquatint`, ID: "Q473236"},
	{Pattern: `arborite`, ID: "Q4784911"},
	{Pattern: `black\s+basalt`, ID: "Q98097860"},
	{Pattern: `bronze`, ID: "Q34095"},
	{Pattern: `brown\s+ink`, ID: "Q58344150"},
	{Pattern: `ink`, ID: "Q127418"},
	{Pattern: `black\s+chalk`, ID: "Q3387833"},
	{Pattern: `red\s+chalk`, ID: "Q901944"}, // sanguine
	{Pattern: `carborundum`, ID: "Q3206631"},
	{Pattern: `ceramic`, ID: "Q45621"},
	{Pattern: `chalk`, ID: "Q183670"},
	{Pattern: `charcoal`, ID: "Q1424515"},
	{Pattern: `chine\s+collé`, ID: "Q3674992"},
	{Pattern: `cibachrome`, ID: "Q1622095"},
	{Pattern: `collotype`, ID: "Q1572315"},
	{Pattern: `concrete`, ID: "Q22657"},
	{Pattern: `coade\s+stone`, ID: "Q682083"},
	{Pattern: `copper`, ID: "Q753"},
	{Pattern: `conté crayon`, ID: "Q1129270"},
	{Pattern: `drypoint`, ID: "Q542340"},
	{Pattern: `dye coupler`, ID: "Q172922"}, // chromogenic dye coupler print
	{Pattern: `enamel`, ID: "Q213371"},
	{Pattern: `stipple(|\s+engraving)`, ID: "Q7617514"},
	{Pattern: `line\s+engraving`, ID: "Q747704"},
	{Pattern: `engrav`, ID: "Q11835431"}, // engraving, engraved, etc.
	{Pattern: `etching|etched`, ID: "Q186986"},
	{Pattern: `gelatin\s+silver\s+print`, ID: "Q64029133"},
	{Pattern: `gesso`, ID: "Q1514256", Paint: true},
	{Pattern: `gold\s+leaf`, ID: "Q929186"},
	{Pattern: `gold`, ID: "Q208045"},
	{Pattern: `gouache`, ID: "Q204330", Paint: true},
	{Pattern: `graphite`, ID: "Q5309"},
	{Pattern: `gum\s+arabic`, ID: "Q535814"},
	{Pattern: `ivory`, ID: "Q82001"},
	{Pattern: `lacquer`, ID: "Q11236878"},
	{Pattern: `lead`, ID: "Q708"},
	{Pattern: `letterpress`, ID: "Q582102"},
	{Pattern: `lithograph`, ID: "Q15123870"},
	{Pattern: `marble`, ID: "Q40861"},
	{Pattern: `mezzotint`, ID: "Q731980"},
	{Pattern: `mixed\s+media`, ID: "Q1902763"},
	{Pattern: `monotype`, ID: "Q22669635"},
	{Pattern: `oil`, ID: "Q296955", Paint: true},
	{Pattern: `papier\s+mache`, ID: "Q899363"},
	{Pattern: `papier\s+mâché`, ID: "Q899363"},
	{Pattern: `pastel`, ID: "Q189085"},
	{Pattern: `pearl\s*ware`, ID: "Q98807132"},
	{Pattern: `photogravure`, ID: "Q23657361"},
	{Pattern: `plaster`, ID: "Q274988"},
	{Pattern: `porcelain`, ID: "Q130693"},
	{Pattern: `portland\s+(|lime)stone`, ID: "Q82337"},
	{Pattern: `silkscreen`, ID: "Q187791"},
	{Pattern: `screen\s?print`, ID: "Q22569957"},
	{Pattern: `slate`, ID: "Q207079"},
	{Pattern: `tempera`, ID: "Q175166", Paint: true},
	{Pattern: `terracotta`, ID: "Q60424"},
	{Pattern: `varnish`, ID: "Q81683"},
	{Pattern: `vinyl`, ID: "xxx"}, // TODO: find the item for vinyl as a material (the surface table has one)
	{Pattern: `wash`, ID: "Q1469362", Paint: true},
	{Pattern: `watercolou?r`, ID: "Q22915256", Paint: true},
	{Pattern: `wax`, ID: "Q69158"},
	{Pattern: `paint`, ID: "Q174219", Paint: true}, // generic catch-all, must stay last
}

var defaultSurfaces = []SurfaceRule{
	{Pattern: `canvas`, ID: "Q12321255"},
	{Pattern: `cardboard`, ID: "Q389782"},
	{Pattern: `board`, ID: "Q18668582"},
	{Pattern: `card`, ID: "Q6432723"},
	{Pattern: `newsprint`, ID: "Q187046"},
	{Pattern: `panel`, ID: "Q1348059"},
	{Pattern: `photographic\s+paper`, ID: "Q912760"},
	{Pattern: `handmade paper`, ID: "Q65769963"},
	{Pattern: `laid\s+paper`, ID: "Q1513685"},
	{Pattern: `wove\s+paper`, ID: "Q21279007"},
	{Pattern: `paper`, ID: "Q11472"},
	{Pattern: `parchment`, ID: "Q226697"},
	{Pattern: `silk`, ID: "Q37681"},
	{Pattern: `steel`, ID: "Q11427"},
	{Pattern: `vellum`, ID: "Q378274"},
	{Pattern: `vinyl`, ID: "Q1812439"},
	{Pattern: `wood`, ID: "Q287"},
}
