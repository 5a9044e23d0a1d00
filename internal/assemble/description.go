package assemble

import (
	"regexp"
	"strings"
)

// prefixTerms are the leading words of attribution-style artist names
// ("Attributed to Fred Bloggs", "Studio of ..."). When one starts the name
// the whole phrase reads as a sentence fragment and gets a lower-case start.
var prefixTerms = regexp.MustCompile(`(Attributed|Circle|Commenced|Copy|Designed|Drawing|Engraved|Etched|Formerly|Imitator|Landscape|Portrait|Possibly|Print|Printed|Published|Pupil|Related|Studio)[\s:]`)

// lowerCasePrefixes lower-cases the first character of attribution prefixes
// so "Probably Fred Bloggs" becomes "probably Fred Bloggs"
func lowerCasePrefixes(name string) string {
	if name != "" && prefixTerms.MatchString(name) {
		return strings.ToLower(name[:1]) + name[1:]
	}
	return name
}

// describe builds a short description from the category and artist name,
// e.g. "painting by Rembrandt". When the record carries an attribution
// override like "Probably by Rembrandt" the category and override are
// joined with a hyphen instead: "painting - probably by Rembrandt".
func describe(category, artistName, overrideName string) string {
	if category == "Miscellaneous" || category == "" {
		category = "artwork"
	} else {
		category = strings.ToLower(category[:1]) + category[1:]
	}

	overrideName = lowerCasePrefixes(overrideName)
	if overrideName == "" || overrideName == artistName {
		return category + " by " + artistName
	}
	return category + " - " + overrideName
}
