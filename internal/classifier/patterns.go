package classifier

import (
	"regexp"

	"github.com/kyletbuzbee/Website-Templates-sub002/pkg/models"
)

// CategoryPattern binds a category to filename keywords.
type CategoryPattern struct {
	Category models.Category
	Pattern  *regexp.Regexp
}

// DefaultPatterns is evaluated in order; the first matching entry wins.
var DefaultPatterns = []CategoryPattern{
	{models.CategoryHero, regexp.MustCompile(`(?i)hero|banner|background`)},
	{models.CategoryTeam, regexp.MustCompile(`(?i)team|about|staff|professional`)},
	{models.CategoryAvatar, regexp.MustCompile(`(?i)avatar|profile|testimonial|client`)},
	{models.CategoryProperty, regexp.MustCompile(`(?i)property|house|building|real-estate`)},
	{models.CategoryWork, regexp.MustCompile(`(?i)work|project|portfolio|service`)},
	{models.CategoryGallery, regexp.MustCompile(`(?i)gallery|classes|equipment|trainers`)},
}

// HeroAllowlist names stock hero images per industry that carry no
// keyword in their filename. Keys are industry slugs, values exact base
// names.
var HeroAllowlist = map[string][]string{
	"restaurant":  {"dining-room.jpg", "chef-plating.jpg"},
	"legal":       {"law-office.jpg", "courthouse.jpg"},
	"fitness":     {"gym-interior.jpg", "weights-rack.jpg"},
	"real-estate": {"luxury-home.jpg", "city-skyline.jpg"},
	"photography": {"camera-lens.jpg", "studio-setup.jpg"},
	"roofing":     {"roof-installation.jpg"},
	"dental":      {"dental-office.jpg"},
}

// expectedAspect is the width/height ratio each category is usually shot
// at; a close match raises category confidence.
var expectedAspect = map[models.Category]float64{
	models.CategoryHero:     16.0 / 9.0,
	models.CategoryTeam:     1,
	models.CategoryAvatar:   1,
	models.CategoryProperty: 4.0 / 3.0,
	models.CategoryWork:     4.0 / 3.0,
	models.CategoryGallery:  3.0 / 2.0,
}
