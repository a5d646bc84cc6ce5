package filename

// Known is the ordered list of industry slugs. Parse takes the first slug
// that prefixes a filename, so a slug that is itself a prefix of another
// (e.g. "real" and "real-estate") must be declared after the longer one.
var Known = []string{
	"restaurant",
	"legal",
	"fitness",
	"real-estate",
	"photography",
	"roofing",
	"dental",
	"medical",
	"salon",
	"construction",
	"landscaping",
	"plumbing",
	"automotive",
	"cleaning",
	"consulting",
	"bakery",
}

// IsKnown reports whether slug is a declared industry.
func IsKnown(slug string) bool {
	for _, known := range Known {
		if known == slug {
			return true
		}
	}
	return false
}

// SupportedExtensions are the raster inputs the pipeline accepts.
var SupportedExtensions = []string{"jpg", "jpeg", "png", "webp"}

// IsSupportedExtension expects a lower-case extension without the dot.
func IsSupportedExtension(ext string) bool {
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}
