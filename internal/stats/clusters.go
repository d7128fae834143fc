package stats

import (
	"slices"

	"github.com/golang/geo/s2"

	"grievance-analytics/internal/grievance"
)

const (
	baseMarkerRadius = 10
	maxMarkerRadius  = 30
	radiusPerReport  = 4

	// earthRadiusKm converts s2 angles to surface distance.
	earthRadiusKm = 6371.0088
)

// LocationCluster groups the reports sharing a normalized location key.
type LocationCluster struct {
	Key         string             `json:"key"`
	DisplayName string             `json:"displayName"`
	Coordinates Coordinates        `json:"coordinates"`
	Count       int                `json:"count"`
	Departments []string           `json:"departments"`
	Reports     []grievance.Report `json:"reports"`
}

// Preview returns up to n member reports, in arrival order, for map popups.
func (c *LocationCluster) Preview(n int) []grievance.Report {
	if n <= 0 || n >= len(c.Reports) {
		return c.Reports
	}
	return c.Reports[:n]
}

// ClusterSet holds clusters in first-seen order plus a lookup by key.
type ClusterSet struct {
	Clusters []*LocationCluster
	byKey    map[string]*LocationCluster
}

// Get returns the cluster for a raw or normalized location string.
func (s ClusterSet) Get(location string) (*LocationCluster, bool) {
	c, ok := s.byKey[normalizeKey(location)]
	return c, ok
}

// Len returns the number of clusters.
func (s ClusterSet) Len() int { return len(s.Clusters) }

// ClusterReports groups reports by lower(trim(location)). Reports with a missing
// or blank location are excluded. Coordinates are resolved once per cluster.
func ClusterReports(reports []grievance.Report, resolver LocationResolver) ClusterSet {
	set := ClusterSet{
		Clusters: make([]*LocationCluster, 0),
		byKey:    make(map[string]*LocationCluster),
	}

	for _, r := range reports {
		if !r.HasLocation() {
			continue
		}
		raw := r.LocationText()
		key := normalizeKey(raw)

		c, ok := set.byKey[key]
		if !ok {
			c = &LocationCluster{
				Key:         key,
				DisplayName: raw,
				Coordinates: resolver.Resolve(raw),
				Departments: make([]string, 0, 1),
			}
			set.byKey[key] = c
			set.Clusters = append(set.Clusters, c)
		}

		c.Count++
		c.Reports = append(c.Reports, r)
		if r.Department != "" && !slices.Contains(c.Departments, r.Department) {
			c.Departments = append(c.Departments, r.Department)
		}
	}
	return set
}

// MarkerRadius is the map marker radius for a cluster of the given size.
func MarkerRadius(count int) int {
	return min(maxMarkerRadius, baseMarkerRadius+count*radiusPerReport)
}

// IntensityTier is the display tier of a cluster by report count.
type IntensityTier string

const (
	TierHigh       IntensityTier = "high"
	TierMediumHigh IntensityTier = "medium-high"
	TierMedium     IntensityTier = "medium"
	TierLow        IntensityTier = "low"
)

var tierColors = map[IntensityTier]string{
	TierHigh:       "#ff000071",
	TierMediumHigh: "#ff6a0064",
	TierMedium:     "#ffd00071",
	TierLow:        "#00ff625d",
}

// Intensity returns the tier for a report count.
func Intensity(count int) IntensityTier {
	switch {
	case count > 4:
		return TierHigh
	case count > 2:
		return TierMediumHigh
	case count > 1:
		return TierMedium
	default:
		return TierLow
	}
}

// Color is the marker fill colour for the tier.
func (t IntensityTier) Color() string {
	return tierColors[t]
}

// NearbyCluster is a cluster annotated with its distance from a query point.
type NearbyCluster struct {
	Cluster    *LocationCluster `json:"cluster"`
	DistanceKm float64          `json:"distanceKm"`
}

// ClustersWithin returns clusters within radiusKm of center, nearest first.
// Ties keep cluster order.
func ClustersWithin(set ClusterSet, center Coordinates, radiusKm float64) []NearbyCluster {
	origin := s2.LatLngFromDegrees(center.Lat(), center.Lng())
	out := make([]NearbyCluster, 0)
	for _, c := range set.Clusters {
		p := s2.LatLngFromDegrees(c.Coordinates.Lat(), c.Coordinates.Lng())
		d := origin.Distance(p).Radians() * earthRadiusKm
		if d <= radiusKm {
			out = append(out, NearbyCluster{Cluster: c, DistanceKm: d})
		}
	}
	slices.SortStableFunc(out, func(a, b NearbyCluster) int {
		switch {
		case a.DistanceKm < b.DistanceKm:
			return -1
		case a.DistanceKm > b.DistanceKm:
			return 1
		}
		return 0
	})
	return out
}
