package countries

import (
	"os"
	"path"
)

// DefaultWaterMap is served when a country has no dedicated water map.
const DefaultWaterMap = "default.jpg"

// FileExists reports whether a water-map image is present.
type FileExists func(name string) bool

// OSFileExists checks the local filesystem.
func OSFileExists(name string) bool {
	info, err := os.Stat(name)
	return err == nil && !info.IsDir()
}

// FlagURL returns the flag image for iso2, or "" when the flag should be hidden.
func FlagURL(base, iso2 string) string {
	if iso2 == "" {
		return ""
	}
	return base + "/" + iso2 + ".png"
}

// WaterMapPath picks dir/<iso2>.jpg when it exists, else dir/default.jpg.
// A nil exists assumes every candidate is present.
func WaterMapPath(dir, iso2 string, exists FileExists) string {
	if iso2 != "" {
		candidate := path.Join(dir, iso2+".jpg")
		if exists == nil || exists(candidate) {
			return candidate
		}
	}
	return path.Join(dir, DefaultWaterMap)
}
