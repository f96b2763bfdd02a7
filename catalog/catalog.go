// Package catalog holds the fixed provider and region tables offered by the
// dropdowns. The tables are built once and never modified; every accessor
// returns a copy.
package catalog

import (
	"github.com/michaelf2104/InternetProviderVisualization/apperr"
	"github.com/michaelf2104/InternetProviderVisualization/dataset"
)

const (
	Telekom    = "Telekom"
	Vodafone   = "Vodafone"
	Telefonica = "Telefonica"
)

var providerOrder = []string{Telekom, Vodafone, Telefonica}

// mobile network codes per German operator
var providerCodes = map[string][]int{
	Telekom:    {1, 6},
	Vodafone:   {2, 4, 9},
	Telefonica: {3, 5, 7, 8, 11, 77},
}

// Center is the initial map view for a region.
type Center struct {
	Latitude  float64
	Longitude float64
	Zoom      int
}

var regionOrder = []string{"München", "Berlin", "Hamburg"}

var regionCenters = map[string]Center{
	"München": {Latitude: 48.1374, Longitude: 11.5755, Zoom: 12},
	"Berlin":  {Latitude: 52.5200, Longitude: 13.4050, Zoom: 11},
	"Hamburg": {Latitude: 53.5511, Longitude: 9.9937, Zoom: 11},
}

// Germany is the fallback view when a map has neither rows nor a known region.
var Germany = Center{Latitude: 51.1657, Longitude: 10.4515, Zoom: 6}

// Providers returns the provider names in dropdown order.
func Providers() []string {
	return append([]string(nil), providerOrder...)
}

// ProviderCodes returns the network codes of provider.
func ProviderCodes(provider string) ([]int, error) {
	codes, ok := providerCodes[provider]
	if !ok {
		return nil, apperr.New(apperr.CodeUnknownProvider, "unknown provider").WithDetail(provider)
	}
	return append([]int(nil), codes...), nil
}

// Regions returns the selectable regions in dropdown order.
func Regions() []string {
	return append([]string(nil), regionOrder...)
}

// RegionCenter returns the map view for region.
func RegionCenter(region string) (Center, error) {
	c, ok := regionCenters[dataset.NormalizeRegion(region)]
	if !ok {
		return Center{}, apperr.New(apperr.CodeUnknownRegion, "unknown region").WithDetail(region)
	}
	return c, nil
}

// Criteria validates a dropdown selection and turns it into loader criteria.
func Criteria(provider, region string) (dataset.Criteria, error) {
	codes, err := ProviderCodes(provider)
	if err != nil {
		return dataset.Criteria{}, err
	}
	r := dataset.NormalizeRegion(region)
	if _, ok := regionCenters[r]; !ok {
		return dataset.Criteria{}, apperr.New(apperr.CodeUnknownRegion, "unknown region").WithDetail(region)
	}
	return dataset.Criteria{Region: r, NetworkCodes: codes}, nil
}
