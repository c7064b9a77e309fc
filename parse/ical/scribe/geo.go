package scribe

import (
	"strings"

	"github.com/dzjyyds666/ical/parse/ical"
)

// GeoScribe marshals GEO. A nil coordinate is written as 0.0.
func GeoScribe() *FuncScribe {
	return &FuncScribe{
		Type:    ical.TypeGeo,
		Name:    "GEO",
		Default: ical.DataTypeFloat,
		WriteTextFn: func(p ical.Property, ctx *ical.Context) (string, error) {
			lat, lon := geoStrings(p.(*ical.Geo))
			if ctx.Version.IsLegacy() {
				return lat + "," + lon, nil
			}
			return lat + ";" + lon, nil
		},
		ParseTextFn: func(value string, _ ical.DataType, _ *ical.Parameters, ctx *ical.Context) (ical.Property, error) {
			if strings.TrimSpace(value) == "" {
				return nil, ical.CannotParse(ical.CodeGeoMissing)
			}
			var parts []string
			if ctx.Version.IsLegacy() {
				parts = splitList(value)
			} else {
				parts = splitStructured(value, 2)
			}
			lon := ""
			if len(parts) > 1 {
				lon = parts[1]
			}
			return parseGeo(parts[0], lon)
		},
		WriteXMLFn: func(p ical.Property, el *XCalElement, _ *ical.Context) error {
			lat, lon := geoStrings(p.(*ical.Geo))
			el.Append("latitude", lat)
			el.Append("longitude", lon)
			return nil
		},
		ParseXMLFn: func(el *XCalElement, _ *ical.Parameters, _ *ical.Context) (ical.Property, error) {
			lat, hasLat := el.First("latitude")
			lon, hasLon := el.First("longitude")
			var missing []string
			if !hasLat {
				missing = append(missing, "latitude")
			}
			if !hasLon {
				missing = append(missing, "longitude")
			}
			if len(missing) > 0 {
				return nil, ical.MissingElements(missing...)
			}
			return parseGeo(lat, lon)
		},
		WriteJSONFn: func(p ical.Property, _ *ical.Context) (*JCalValue, error) {
			g := p.(*ical.Geo)
			return StructuredValue(orZero(g.Latitude), orZero(g.Longitude)), nil
		},
		ParseJSONFn: func(v *JCalValue, _ ical.DataType, _ *ical.Parameters, _ *ical.Context) (ical.Property, error) {
			parts := v.AsStructured()
			if len(parts) == 0 {
				return nil, ical.CannotParse(ical.CodeGeoMissing)
			}
			lon := ""
			if len(parts) > 1 {
				lon = parts[1]
			}
			return parseGeo(parts[0], lon)
		},
	}
}

func parseGeo(latStr, lonStr string) (*ical.Geo, error) {
	lat, err := parseFloat(latStr)
	if err != nil {
		return nil, ical.CannotParse(ical.CodeGeoLatitude, latStr)
	}
	lon, err := parseFloat(lonStr)
	if err != nil {
		return nil, ical.CannotParse(ical.CodeGeoLongitude, lonStr)
	}
	return ical.NewGeo(lat, lon), nil
}

func geoStrings(g *ical.Geo) (string, string) {
	return formatFloat(orZero(g.Latitude)), formatFloat(orZero(g.Longitude))
}

func orZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
