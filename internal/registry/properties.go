package registry

// Knowledge-base properties used for artwork items
const (
	PropInstanceOf     = "P31"
	PropLocation       = "P276"
	PropCreator        = "P170"
	PropInception      = "P571"
	PropMadeIn         = "P1071"
	PropTitle          = "P1476"
	PropGenre          = "P136"
	PropMaterialUsed   = "P186"
	PropCollection     = "P195"
	PropStartTime      = "P580"
	PropEarliestDate   = "P1319"
	PropLatestDate     = "P1326"
	PropCircumstances  = "P1480"
	PropAppliesToPart  = "P518"
	PropHeight         = "P2048"
	PropWidth          = "P2049"
	PropThickness      = "P2610"
	PropImageSuggested = "P4765"
	PropImage          = "P18"
	PropNonFreeImage   = "P6500"
	PropImageFormat    = "P2701"
	PropImageSource    = "P2699"
	PropAuthorName     = "P2093"
	PropLicense        = "P275"
	PropOperator       = "P137"
	PropIIIFManifest   = "P6108"
	PropDescribedAt    = "P973"
	PropReferenceURL   = "P854"
	PropRetrieved      = "P813"
)

// Items referenced from qualifiers
const (
	ItemCirca           = "Q5727902" // sourcing circumstances: circa
	ItemPaintingSurface = "Q861259"  // applies-to-part target for paint-bearing supports
	ItemCentimetre      = "Q174728"
)

// Time precisions as the wikibase data model counts them
const (
	PrecisionTenMillennia = 5
	PrecisionMillennium   = 6
	PrecisionCentury      = 7
	PrecisionDecade       = 8
	PrecisionYear         = 9
	PrecisionDay          = 11
)
