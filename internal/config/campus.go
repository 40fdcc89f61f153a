package config

import "github.com/atharv3903/campusnav/internal/model"

// CampusRegion bounds the Chandigarh University walk network.
var CampusRegion = model.Region{
	North: 30.7760,
	South: 30.7620,
	East:  76.5850,
	West:  76.5700,
}

// CampusLocations is the built-in named-location table, in display order.
func CampusLocations() []model.Location {
	return []model.Location{
		{Name: "Gate 1", Coord: model.Coord{Lat: 30.771879, Lon: 76.579789}},
		{Name: "Gate 2", Coord: model.Coord{Lat: 30.771148, Lon: 76.576295}},
		{Name: "A1", Coord: model.Coord{Lat: 30.771617, Lon: 76.578250}},
		{Name: "A2", Coord: model.Coord{Lat: 30.769855, Lon: 76.579357}},
		{Name: "B1", Coord: model.Coord{Lat: 30.769617, Lon: 76.575606}},
		{Name: "SH", Coord: model.Coord{Lat: 30.770747, Lon: 76.577946}},
		{Name: "FC", Coord: model.Coord{Lat: 30.768793, Lon: 76.577916}},
		{Name: "CC/B2", Coord: model.Coord{Lat: 30.769084, Lon: 76.576279}},
		{Name: "C1", Coord: model.Coord{Lat: 30.76711207441493, Lon: 76.575975843947}},
		{Name: "C3", Coord: model.Coord{Lat: 30.767174255704376, Lon: 76.57485203246935}},
		{Name: "C2", Coord: model.Coord{Lat: 30.766080680167207, Lon: 76.57610101328784}},
		{Name: "Tagore Hostel", Coord: model.Coord{Lat: 30.766222627361326, Lon: 76.57571570105372}},
		{Name: "Gate 4", Coord: model.Coord{Lat: 30.766129233861406, Lon: 76.57488115897749}},
		{Name: "B2", Coord: model.Coord{Lat: 30.769205930294973, Lon: 76.57586920399194}},
		{Name: "Corner Cafe", Coord: model.Coord{Lat: 30.769171060935538, Lon: 76.57631585216063}},
		{Name: "B4", Coord: model.Coord{Lat: 30.768628735135334, Lon: 76.57452754799152}},
		{Name: "DSW", Coord: model.Coord{Lat: 30.76860219001556, Lon: 76.57547866320283}},
		{Name: "Playground", Coord: model.Coord{Lat: 30.767913889833643, Lon: 76.57579312682144}},
		{Name: "HDFC Bank", Coord: model.Coord{Lat: 30.7705250780109, Lon: 76.57717662325923}},
		{Name: "Transport Department", Coord: model.Coord{Lat: 30.770508945696456, Lon: 76.57692516617526}},
	}
}
