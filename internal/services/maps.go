package services

import (
	"net/url"
	"strconv"
	"strings"
)

// Campus map centre and the landmarks pinned on every map.
var (
	CampusCenter = LatLng{Lat: 5.6037, Lng: -0.1870}

	CampusLandmarks = []Landmark{
		{Name: "Main Gate", Position: LatLng{Lat: 5.6045, Lng: -0.1860}},
		{Name: "Great Hall", Position: LatLng{Lat: 5.6055, Lng: -0.1875}},
		{Name: "Balme Library", Position: LatLng{Lat: 5.6040, Lng: -0.1890}},
		{Name: "Commonwealth Hall", Position: LatLng{Lat: 5.6020, Lng: -0.1850}},
		{Name: "Volta Hall", Position: LatLng{Lat: 5.6030, Lng: -0.1900}},
		{Name: "Pentagon", Position: LatLng{Lat: 5.6025, Lng: -0.1885}},
		{Name: "Night Market", Position: LatLng{Lat: 5.6015, Lng: -0.1895}},
	}
)

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Landmark struct {
	Name     string `json:"name"`
	Position LatLng `json:"position"`
}

type MapMarker struct {
	ShuttleID string  `json:"shuttle_id"`
	Label     string  `json:"label"`
	Position  LatLng  `json:"position"`
	Status    string  `json:"status"`
	Color     string  `json:"color"`
	Occupancy string  `json:"occupancy"`
	Load      float64 `json:"load"`
}

// MapView is everything the client needs to draw the live map.
type MapView struct {
	Provider    string      `json:"provider"`
	Center      LatLng      `json:"center"`
	Zoom        int         `json:"zoom"`
	TileURL     string      `json:"tile_url,omitempty"`
	ScriptURL   string      `json:"script_url,omitempty"`
	Attribution string      `json:"attribution,omitempty"`
	Markers     []MapMarker `json:"markers"`
	Landmarks   []Landmark  `json:"landmarks"`
}

// MapProvider turns shuttle positions into a provider-specific map payload.
type MapProvider interface {
	Name() string
	Render(positions []ShuttlePosition) MapView
}

// NewMapProvider picks google when an API key is configured, otherwise osm.
func NewMapProvider(apiKey string) MapProvider {
	if strings.TrimSpace(apiKey) != "" {
		return GoogleMapProvider{APIKey: strings.TrimSpace(apiKey)}
	}
	return OSMProvider{}
}

type GoogleMapProvider struct {
	APIKey string
}

func (GoogleMapProvider) Name() string { return "google" }

func (g GoogleMapProvider) Render(positions []ShuttlePosition) MapView {
	q := url.Values{}
	q.Set("key", g.APIKey)
	q.Set("libraries", "marker")
	return MapView{
		Provider:  g.Name(),
		Center:    CampusCenter,
		Zoom:      16,
		ScriptURL: "https://maps.googleapis.com/maps/api/js?" + q.Encode(),
		Markers:   markers(positions),
		Landmarks: CampusLandmarks,
	}
}

type OSMProvider struct{}

func (OSMProvider) Name() string { return "osm" }

func (o OSMProvider) Render(positions []ShuttlePosition) MapView {
	return MapView{
		Provider:    o.Name(),
		Center:      CampusCenter,
		Zoom:        16,
		TileURL:     "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
		Attribution: "© OpenStreetMap contributors",
		Markers:     markers(positions),
		Landmarks:   CampusLandmarks,
	}
}

// markers skips shuttles that have never reported a position.
func markers(positions []ShuttlePosition) []MapMarker {
	out := make([]MapMarker, 0, len(positions))
	for _, p := range positions {
		if p.Location == nil {
			continue
		}
		out = append(out, MapMarker{
			ShuttleID: p.ID,
			Label:     p.ShuttleCode,
			Position:  LatLng{Lat: p.Location.Latitude, Lng: p.Location.Longitude},
			Status:    string(p.Status),
			Color:     loadColor(p.LoadFactor),
			Occupancy: occupancyLabel(p.CurrentOccupancy, p.Capacity),
			Load:      p.LoadFactor,
		})
	}
	return out
}

// loadColor matches the tracking page legend: green under 70%, amber under 90%, red above.
func loadColor(load float64) string {
	switch {
	case load >= 0.9:
		return "red"
	case load >= 0.7:
		return "amber"
	default:
		return "green"
	}
}

func occupancyLabel(occ, capacity int) string {
	return strconv.Itoa(occ) + "/" + strconv.Itoa(capacity)
}
