package enrich

// domainCategories maps known company domains to product categories.
// Unknown domains fall back to "general".
var domainCategories = map[string]string{
	"amazon.com":         "retail",
	"target.com":         "retail",
	"walmart.com":        "retail",
	"kohls.com":          "retail",
	"bestbuy.com":        "electronics",
	"apple.com":          "technology",
	"microsoft.com":      "technology",
	"google.com":         "technology",
	"nike.com":           "fashion",
	"adidas.com":         "fashion",
	"gap.com":            "fashion",
	"oldnavy.com":        "fashion",
	"zara.com":           "fashion",
	"hm.com":             "fashion",
	"uniqlo.com":         "fashion",
	"macys.com":          "fashion",
	"nordstrom.com":      "fashion",
	"jcpenney.com":       "fashion",
	"bloomingdales.com":  "fashion",
	"asos.com":           "fashion",
	"shein.com":          "fashion",
	"fashionnova.com":    "fashion",
	"urbanoutfitters.com": "fashion",
	"anthropologie.com":  "fashion",
	"freepeople.com":     "fashion",
	"lulus.com":          "fashion",
	"revolve.com":        "fashion",
	"sephora.com":        "beauty",
	"ulta.com":           "beauty",
	"starbucks.com":      "food",
	"mcdonalds.com":      "food",
	"dominos.com":        "food",
	"potbelly.com":       "food",
	"uber.com":           "transportation",
	"lyft.com":           "transportation",
	"airbnb.com":         "travel",
	"booking.com":        "travel",
	"expedia.com":        "travel",
	"spotify.com":        "entertainment",
	"netflix.com":        "entertainment",
	"hulu.com":           "entertainment",
	"wayfair.com":        "home",
	"ikea.com":           "home",
	"homedepot.com":      "home",
	"lowes.com":          "home",
	"cvs.com":            "health",
	"walgreens.com":      "health",
	"gnc.com":            "health",
}
