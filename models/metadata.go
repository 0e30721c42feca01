package models

// PublishedStatus marks a tc_header row as released to the public.
const PublishedStatus = "publish"

// Source codes stored in tc_header.source.
const (
	sourceCodeDVRPC    = "0"
	sourceCodeExternal = "-1"
)

// Metadata is the header of one count, from the tc_header table.
//
// Every field carries two names: the database column (mapstructure tag) used
// to decode rows, and the stable API name (json tag). Columns repeats the API
// names in output order for tabular formats.
type Metadata struct {
	RecordNum       int64    `mapstructure:"recordnum" json:"record_num"`
	Source          *string  `mapstructure:"source" json:"source"`
	CounterID       *string  `mapstructure:"counterid" json:"counter_id"`
	StationID       *string  `mapstructure:"stationid" json:"station_id"`
	CountKind       *string  `mapstructure:"-" json:"count_type"`
	SubKind         *string  `mapstructure:"type" json:"sub_type"`
	SetDate         *Date    `mapstructure:"setdate" json:"set_date"`
	Project         *string  `mapstructure:"prj" json:"project"`
	Program         *string  `mapstructure:"program" json:"program"`
	Group           *string  `mapstructure:"bikepedgroup" json:"group"`
	Facility        *string  `mapstructure:"bikepedfacility" json:"facility"`
	SR              *string  `mapstructure:"sr" json:"sr"`
	Seg             *string  `mapstructure:"seg" json:"seg"`
	Offset          *string  `mapstructure:"offset" json:"offset"`
	SRI             *string  `mapstructure:"sri" json:"sri"`
	MP              *string  `mapstructure:"mp" json:"mp"`
	Latitude        *float64 `mapstructure:"latitude" json:"latitude"`
	Longitude       *float64 `mapstructure:"longitude" json:"longitude"`
	MCD             *string  `mapstructure:"mcd" json:"mcd"`
	Municipality    *string  `mapstructure:"-" json:"municipality"`
	County          *string  `mapstructure:"-" json:"county"`
	State           *string  `mapstructure:"-" json:"state"`
	Route           *int64   `mapstructure:"route" json:"route"`
	Road            *string  `mapstructure:"road" json:"road"`
	RoadPrefix      *string  `mapstructure:"rdprefix" json:"road_prefix"`
	RoadSuffix      *string  `mapstructure:"rdsuffix" json:"road_suffix"`
	IsUrban         *string  `mapstructure:"isurban" json:"is_urban"`
	Sidewalk        *string  `mapstructure:"sidewalk" json:"sidewalk"`
	Lane1Dir        *string  `mapstructure:"cldir1" json:"lane1_dir"`
	Lane2Dir        *string  `mapstructure:"cldir2" json:"lane2_dir"`
	Lane3Dir        *string  `mapstructure:"cldir3" json:"lane3_dir"`
	CountDirection  *string  `mapstructure:"cntdir" json:"count_direction"`
	TrafficDir      *string  `mapstructure:"trafdir" json:"traffic_direction"`
	FunctionalClass *int64   `mapstructure:"fc" json:"functional_class"`
	SpeedLimit      *int64   `mapstructure:"speedlimit" json:"speed_limit"`
	AADV            *int64   `mapstructure:"aadv" json:"aadv"`
	AMPeakVolume    *int64   `mapstructure:"am_peak_volume" json:"am_peak_volume"`
	AvgAMMaxPercent *float64 `mapstructure:"avg_am_max_percent" json:"avg_am_max_percent"`
	PMPeakVolume    *int64   `mapstructure:"pm_peak_volume" json:"pm_peak_volume"`
	AvgPMMaxPercent *float64 `mapstructure:"avg_pm_max_percent" json:"avg_pm_max_percent"`
	Comments        *string  `mapstructure:"comments" json:"comments"`
	Status          *string  `mapstructure:"status" json:"-"`
}

// Column is one named value of a tabular row.
type Column struct {
	Name  string
	Value any
}

// Columns returns the metadata in output order under its API names.
func (m *Metadata) Columns() []Column {
	return []Column{
		{"record_num", m.RecordNum},
		{"source", m.Source},
		{"counter_id", m.CounterID},
		{"station_id", m.StationID},
		{"count_type", m.CountKind},
		{"sub_type", m.SubKind},
		{"set_date", m.SetDate},
		{"project", m.Project},
		{"program", m.Program},
		{"group", m.Group},
		{"facility", m.Facility},
		{"sr", m.SR},
		{"seg", m.Seg},
		{"offset", m.Offset},
		{"sri", m.SRI},
		{"mp", m.MP},
		{"latitude", m.Latitude},
		{"longitude", m.Longitude},
		{"mcd", m.MCD},
		{"municipality", m.Municipality},
		{"county", m.County},
		{"state", m.State},
		{"route", m.Route},
		{"road", m.Road},
		{"road_prefix", m.RoadPrefix},
		{"road_suffix", m.RoadSuffix},
		{"is_urban", m.IsUrban},
		{"sidewalk", m.Sidewalk},
		{"lane1_dir", m.Lane1Dir},
		{"lane2_dir", m.Lane2Dir},
		{"lane3_dir", m.Lane3Dir},
		{"count_direction", m.CountDirection},
		{"traffic_direction", m.TrafficDir},
		{"functional_class", m.FunctionalClass},
		{"speed_limit", m.SpeedLimit},
		{"aadv", m.AADV},
		{"am_peak_volume", m.AMPeakVolume},
		{"avg_am_max_percent", m.AvgAMMaxPercent},
		{"pm_peak_volume", m.PMPeakVolume},
		{"avg_pm_max_percent", m.AvgPMMaxPercent},
		{"comments", m.Comments},
	}
}

// Published reports whether the header may be exposed.
func (m *Metadata) Published() bool {
	return m.Status != nil && *m.Status == PublishedStatus
}

// NormalizeSource maps the stored source code to a human label.
func (m *Metadata) NormalizeSource() {
	if m.Source == nil {
		return
	}
	switch *m.Source {
	case sourceCodeDVRPC:
		m.Source = strPtr("DVRPC")
	case sourceCodeExternal:
		m.Source = strPtr("external")
	}
}

// SubKindLabel returns the sub-kind or "" when unset.
func (m *Metadata) SubKindLabel() string {
	if m.SubKind == nil {
		return ""
	}
	return *m.SubKind
}

// Municipality is a row of the tc_mcd lookup table.
type Municipality struct {
	Name   *string `mapstructure:"mcdname"`
	County *string `mapstructure:"county"`
	State  *string `mapstructure:"state"`
}

func strPtr(s string) *string { return &s }
