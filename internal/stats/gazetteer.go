package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Coordinates is a [latitude, longitude] pair in decimal degrees.
type Coordinates [2]float64

func (c Coordinates) Lat() float64 { return c[0] }
func (c Coordinates) Lng() float64 { return c[1] }

// CityCenter is the fallback coordinate used for unresolvable locations.
var CityCenter = Coordinates{19.8762, 75.3433}

// Place is a single gazetteer entry. Name is stored lowercased.
type Place struct {
	Name        string      `json:"name"`
	Coordinates Coordinates `json:"coordinates"`
}

// LocationResolver maps free text to map coordinates.
type LocationResolver interface {
	Resolve(location string) Coordinates
}

// Gazetteer is an ordered place-name table. Order matters: when no exact key
// matches, the first entry contained in the input wins, so an earlier short key
// can shadow a later more specific one.
type Gazetteer struct {
	Places  []Place
	Default Coordinates
	index   map[string]int
}

// NewGazetteer builds a gazetteer from places in precedence order. Names are
// normalized to lowercase; duplicate names keep their first position.
func NewGazetteer(places []Place, fallback Coordinates) *Gazetteer {
	g := &Gazetteer{
		Places:  make([]Place, 0, len(places)),
		Default: fallback,
		index:   make(map[string]int, len(places)),
	}
	for _, p := range places {
		name := normalizeKey(p.Name)
		if name == "" {
			continue
		}
		if _, dup := g.index[name]; dup {
			continue
		}
		g.index[name] = len(g.Places)
		g.Places = append(g.Places, Place{Name: name, Coordinates: p.Coordinates})
	}
	return g
}

// Resolve returns the coordinates for a location string. It never fails:
// exact key first, then first substring key in table order, then Default.
func (g *Gazetteer) Resolve(location string) Coordinates {
	key := normalizeKey(location)
	if key == "" {
		return g.Default
	}
	if i, ok := g.index[key]; ok {
		return g.Places[i].Coordinates
	}
	for _, p := range g.Places {
		if strings.Contains(key, p.Name) {
			return p.Coordinates
		}
	}
	return g.Default
}

// Match reports which entry resolved the location, or "" when the default was used.
func (g *Gazetteer) Match(location string) string {
	key := normalizeKey(location)
	if key == "" {
		return ""
	}
	if i, ok := g.index[key]; ok {
		return g.Places[i].Name
	}
	for _, p := range g.Places {
		if strings.Contains(key, p.Name) {
			return p.Name
		}
	}
	return ""
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DefaultGazetteer returns the built-in Aurangabad table.
func DefaultGazetteer() *Gazetteer {
	places := []Place{
		{"aurangabad city", Coordinates{19.8762, 75.3433}},
		{"aurangabad railway station", Coordinates{19.8744, 75.3392}},
		{"cidco", Coordinates{19.8942, 75.3521}},
		{"cidco aurangabad", Coordinates{19.8942, 75.3521}},
		{"cidco n-1", Coordinates{19.8976, 75.3467}},
		{"cidco n-2", Coordinates{19.8958, 75.3492}},
		{"cidco n-3", Coordinates{19.8939, 75.3517}},
		{"cidco n-4", Coordinates{19.8921, 75.3542}},
		{"cidco n-5", Coordinates{19.8903, 75.3567}},
		{"cidco n-6", Coordinates{19.8885, 75.3592}},
		{"cidco n-7", Coordinates{19.8867, 75.3617}},
		{"cidco n-8", Coordinates{19.8849, 75.3642}},
		{"cidco n-9", Coordinates{19.8831, 75.3667}},
		{"cidco n-10", Coordinates{19.8813, 75.3692}},
		{"cidco n-11", Coordinates{19.8795, 75.3717}},
		{"cidco n-12", Coordinates{19.8777, 75.3742}},
		{"cidco n-13", Coordinates{19.8759, 75.3767}},
		{"cidco n-14", Coordinates{19.8741, 75.3792}},
		{"cidco n-15", Coordinates{19.8723, 75.3817}},
		{"osmanpura", Coordinates{19.8800, 75.3410}},
		{"agarkar mala", Coordinates{19.8815, 75.3450}},
		{"harsul", Coordinates{19.8900, 75.3550}},
		{"hanuman nagar", Coordinates{19.8850, 75.3470}},
		{"market yard", Coordinates{19.8770, 75.3380}},
		{"gulmandi", Coordinates{19.8767, 75.3117}},
		{"paithan gate", Coordinates{19.8819, 75.3150}},
		{"delhi gate", Coordinates{19.8867, 75.3358}},
		{"shendra", Coordinates{19.9000, 75.3600}},
		{"shendra midc", Coordinates{19.9000, 75.3600}},
		{"waluj", Coordinates{19.8316, 75.2347}},
		{"chikalthana", Coordinates{19.9014, 75.3819}},
		{"auric", Coordinates{19.9500, 75.4100}},
		{"railway station", Coordinates{19.8744, 75.3392}},
		{"road maintenance", CityCenter},
		{"sanitation", CityCenter},
		{"electricity", CityCenter},
		{"water supply", CityCenter},
		{"public works", CityCenter},
	}
	return NewGazetteer(places, CityCenter)
}

type gazetteerFile struct {
	Default *Coordinates `json:"default"`
	Places  []struct {
		Name string  `json:"name"`
		Lat  float64 `json:"lat"`
		Lng  float64 `json:"lng"`
	} `json:"places"`
}

// LoadGazetteer reads an ordered gazetteer override from a JSON file of the form
// {"default":[lat,lng],"places":[{"name":..,"lat":..,"lng":..}]}.
func LoadGazetteer(path string) (*Gazetteer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read gazetteer: %w", err)
	}
	return ParseGazetteer(data)
}

// ParseGazetteer decodes the JSON gazetteer format used by LoadGazetteer.
func ParseGazetteer(data []byte) (*Gazetteer, error) {
	var f gazetteerFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode gazetteer: %w", err)
	}
	if len(f.Places) == 0 {
		return nil, fmt.Errorf("gazetteer has no places")
	}

	fallback := CityCenter
	if f.Default != nil {
		fallback = *f.Default
	}

	places := make([]Place, 0, len(f.Places))
	for i, p := range f.Places {
		if strings.TrimSpace(p.Name) == "" {
			return nil, fmt.Errorf("gazetteer place %d has an empty name", i)
		}
		places = append(places, Place{Name: p.Name, Coordinates: Coordinates{p.Lat, p.Lng}})
	}
	return NewGazetteer(places, fallback), nil
}
