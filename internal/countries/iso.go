// Package countries resolves ISO 3166-1 alpha-2 codes for boundary features
// and derives the flag and water-map image locations from them.
package countries

import (
	"strings"

	"waterglobe/domain/water"
)

// alpha2Keys are tried in order; different boundary datasets use different names.
var alpha2Keys = []string{
	"ISO_A2",
	"iso_a2",
	"ISO2",
	"ISO_2",
	"WB_A2",
	"ISO3166_1_Alpha_2",
	"ISO3166-1-Alpha-2",
}

var alpha3Keys = []string{"ISO_A3", "ADM0_A3", "iso_a3"}

// Natural Earth marks missing codes with -99.
const missingCode = "-99"

var alpha3ToAlpha2 = map[string]string{
	"TUR": "tr", "USA": "us", "BRA": "br", "CAN": "ca",
	"EGY": "eg", "SAU": "sa", "RUS": "ru", "CHN": "cn",
	"IND": "in", "DEU": "de", "FRA": "fr", "GBR": "gb",
}

var nameToAlpha2 = map[string]string{
	"turkey": "tr", "türkiye": "tr",
	"united states": "us", "usa": "us",
	"brazil": "br", "canada": "ca", "egypt": "eg",
	"saudi arabia": "sa", "russia": "ru", "china": "cn",
	"india": "in", "germany": "de", "france": "fr",
	"united kingdom": "gb", "spain": "es", "italy": "it",
	"japan": "jp", "south korea": "kr", "mexico": "mx",
	"australia": "au",
}

// CodeKeys lists every property name the resolver reads, for loaders that
// need to know which properties to keep.
func CodeKeys() []string {
	keys := make([]string, 0, len(alpha2Keys)+len(alpha3Keys))
	keys = append(keys, alpha2Keys...)
	return append(keys, alpha3Keys...)
}

// ISO2 reads the alpha-2 code from the feature properties, falling back to
// the alpha-3 table. It returns "" when nothing matches.
func ISO2(props water.CountryProps) string {
	for _, k := range alpha2Keys {
		if v := props.Code(k); v != "" && v != missingCode {
			return strings.ToLower(v)
		}
	}
	for _, k := range alpha3Keys {
		if v := props.Code(k); v != "" {
			// only the first present alpha-3 property is consulted
			return alpha3ToAlpha2[strings.ToUpper(v)]
		}
	}
	return ""
}

// GuessISO2FromName maps a handful of well-known country names to codes.
func GuessISO2FromName(name string) string {
	return nameToAlpha2[strings.ToLower(name)]
}

// Resolve tries the properties first and the name table second.
func Resolve(props water.CountryProps) string {
	if code := ISO2(props); code != "" {
		return code
	}
	return GuessISO2FromName(props.Name)
}
