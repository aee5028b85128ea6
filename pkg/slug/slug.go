package slug

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// folds maps accented Latin letters to ASCII after lower-casing.
var folds = strings.NewReplacer(
	"à", "a", "á", "a", "â", "a", "ã", "a", "ä", "a", "å", "a",
	"ç", "c", "è", "e", "é", "e", "ê", "e", "ë", "e",
	"ì", "i", "í", "i", "î", "i", "ï", "i", "ı", "i",
	"ñ", "n", "ò", "o", "ó", "o", "ô", "o", "õ", "o", "ö", "o", "ø", "o",
	"ù", "u", "ú", "u", "û", "u", "ü", "u", "ý", "y", "ÿ", "y",
	"ğ", "g", "ş", "s", "ß", "ss", "&", " and ",
)

// Generate turns a product or category name into a lower-case, hyphenated
// ASCII token usable in file names and URLs.
//
//	"Home & Kitchen"        -> "home-and-kitchen"
//	"Crème Brûlée Torch"    -> "creme-brulee-torch"
//	"USB-C Hub (7-in-1)"    -> "usb-c-hub-7-in-1"
func Generate(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = folds.Replace(s)
	s = nonAlnum.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
