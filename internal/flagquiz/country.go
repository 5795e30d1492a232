// Package flagquiz defines the guess-the-flag game engine and its catalog.
// It has no external dependencies and does no I/O.
package flagquiz

type Country string

const (
	Estonia Country = "Estonia"
	France  Country = "France"
	Germany Country = "Germany"
	Ireland Country = "Ireland"
	Italy   Country = "Italy"
	Nigeria Country = "Nigeria"
	Poland  Country = "Poland"
	Russia  Country = "Russia"
	Spain   Country = "Spain"
	UK      Country = "UK"
	US      Country = "US"
)

// Flag is the presentation data for a country: the image asset key and the
// description read out by screen readers.
type Flag struct {
	Country     Country
	Asset       string
	Description string
}

var catalog = []Flag{
	{Estonia, "Estonia", "Flag with three horizontal stripes of equal size. Top stripe blue, middle stripe black, bottom stripe white"},
	{France, "France", "Flag with three vertical stripes of equal size. Left stripe blue, middle stripe white, right stripe red"},
	{Germany, "Germany", "Flag with three horizontal stripes of equal size. Top stripe black, middle stripe red, bottom stripe gold"},
	{Ireland, "Ireland", "Flag with three vertical stripes of equal size. Left stripe green, middle stripe white, right stripe orange"},
	{Italy, "Italy", "Flag with three vertical stripes of equal size. Left stripe green, middle stripe white, right stripe red"},
	{Nigeria, "Nigeria", "Flag with three vertical stripes of equal size. Left stripe green, middle stripe white, right stripe green"},
	{Poland, "Poland", "Flag with two horizontal stripes of equal size. Top stripe white, bottom stripe red"},
	{Russia, "Russia", "Flag with three horizontal stripes of equal size. Top stripe white, middle stripe blue, bottom stripe red"},
	{Spain, "Spain", "Flag with three horizontal stripes. Top thin stripe red, middle thick stripe gold with a crest on the left, bottom thin stripe red"},
	{UK, "UK", "Flag with overlapping red and white crosses, both straight and diagonally, on a blue background"},
	{US, "US", "Flag with red and white stripes of equal size, with white stars on a blue background in the top-left corner"},
}

// Countries returns the default round pool in catalog order.
func Countries() []Country {
	out := make([]Country, len(catalog))
	for i, f := range catalog {
		out[i] = f.Country
	}
	return out
}

// Flags returns the full flag catalog.
func Flags() []Flag {
	out := make([]Flag, len(catalog))
	copy(out, catalog)
	return out
}

// LookupFlag returns the presentation data for c.
func LookupFlag(c Country) (Flag, bool) {
	for _, f := range catalog {
		if f.Country == c {
			return f, true
		}
	}
	return Flag{}, false
}
