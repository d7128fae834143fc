package export

import (
	geojson "github.com/paulmach/go.geojson"
	"github.com/samber/lo"

	"grievance-analytics/internal/grievance"
	"grievance-analytics/internal/stats"
)

// PreviewSize is the number of member reports embedded in each cluster feature.
const PreviewSize = 3

// ClustersGeoJSON renders clusters as a FeatureCollection of points.
// GeoJSON positions are [lng, lat].
func ClustersGeoJSON(clusters []*stats.LocationCluster) ([]byte, error) {
	fc := geojson.NewFeatureCollection()
	for _, c := range clusters {
		f := geojson.NewPointFeature([]float64{c.Coordinates.Lng(), c.Coordinates.Lat()})
		tier := stats.Intensity(c.Count)

		f.SetProperty("key", c.Key)
		f.SetProperty("name", c.DisplayName)
		f.SetProperty("count", c.Count)
		f.SetProperty("departments", c.Departments)
		f.SetProperty("radius", stats.MarkerRadius(c.Count))
		f.SetProperty("tier", string(tier))
		f.SetProperty("color", tier.Color())
		f.SetProperty("preview", lo.Map(c.Preview(PreviewSize), func(r grievance.Report, _ int) map[string]string {
			return map[string]string{
				"code":   r.Code,
				"title":  r.Title,
				"status": r.RawStatus,
			}
		}))
		fc.AddFeature(f)
	}
	return fc.MarshalJSON()
}
