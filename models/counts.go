package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// HoursPerDay is the number of hour slots of a non-normal day.
const HoursPerDay = 24

// Row is anything that renders as one line of a tabular report.
type Row interface {
	Columns() []Column
}

// Bucket is a row that belongs to one calendar day.
type Bucket interface {
	Row
	Day() Date
}

// HourlyCount is the volume of one hour-truncated timestamp.
type HourlyCount struct {
	DateTime DateTime `mapstructure:"datetime" json:"datetime"`
	Volume   int64    `mapstructure:"volume" json:"volume"`
}

func (h HourlyCount) Day() Date { return h.DateTime.Date() }

func (h HourlyCount) Columns() []Column {
	return []Column{
		{"datetime", h.DateTime},
		{"volume", h.Volume},
	}
}

// HourlyClass is the per-vehicle-class breakdown of one hour.
// UnclassifiedVehicle is already included in PassengerCars.
type HourlyClass struct {
	DateTime                        DateTime `mapstructure:"datetime" json:"datetime"`
	Total                           int64    `mapstructure:"total" json:"total"`
	Motorcycles                     int64    `mapstructure:"motorcycles" json:"motorcycles"`
	PassengerCars                   int64    `mapstructure:"passenger_cars" json:"passenger_cars"`
	OtherFourTireSingleUnitVehicles int64    `mapstructure:"other_four_tire_single_unit_vehicles" json:"other_four_tire_single_unit_vehicles"`
	Buses                           int64    `mapstructure:"buses" json:"buses"`
	TwoAxleSixTireSingleUnitTrucks  int64    `mapstructure:"two_axle_six_tire_single_unit_trucks" json:"two_axle_six_tire_single_unit_trucks"`
	ThreeAxleSingleUnitTrucks       int64    `mapstructure:"three_axle_single_unit_trucks" json:"three_axle_single_unit_trucks"`
	FourOrMoreAxleSingleUnitTrucks  int64    `mapstructure:"four_or_more_axle_single_unit_trucks" json:"four_or_more_axle_single_unit_trucks"`
	FourOrFewerAxleSingleTrailer    int64    `mapstructure:"four_or_fewer_axle_single_trailer_trucks" json:"four_or_fewer_axle_single_trailer_trucks"`
	FiveAxleSingleTrailerTrucks     int64    `mapstructure:"five_axle_single_trailer_trucks" json:"five_axle_single_trailer_trucks"`
	SixOrMoreAxleSingleTrailer      int64    `mapstructure:"six_or_more_axle_single_trailer_trucks" json:"six_or_more_axle_single_trailer_trucks"`
	FiveOrFewerAxleMultiTrailer     int64    `mapstructure:"five_or_fewer_axle_multi_trailer_trucks" json:"five_or_fewer_axle_multi_trailer_trucks"`
	SixAxleMultiTrailerTrucks       int64    `mapstructure:"six_axle_multi_trailer_trucks" json:"six_axle_multi_trailer_trucks"`
	SevenOrMoreAxleMultiTrailer     int64    `mapstructure:"seven_or_more_axle_multi_trailer_trucks" json:"seven_or_more_axle_multi_trailer_trucks"`
	UnclassifiedVehicle             *int64   `mapstructure:"unclassified_vehicle" json:"unclassified_vehicle"`
}

func (h HourlyClass) Day() Date { return h.DateTime.Date() }

func (h HourlyClass) Columns() []Column {
	return []Column{
		{"datetime", h.DateTime},
		{"total", h.Total},
		{"motorcycles", h.Motorcycles},
		{"passenger_cars", h.PassengerCars},
		{"other_four_tire_single_unit_vehicles", h.OtherFourTireSingleUnitVehicles},
		{"buses", h.Buses},
		{"two_axle_six_tire_single_unit_trucks", h.TwoAxleSixTireSingleUnitTrucks},
		{"three_axle_single_unit_trucks", h.ThreeAxleSingleUnitTrucks},
		{"four_or_more_axle_single_unit_trucks", h.FourOrMoreAxleSingleUnitTrucks},
		{"four_or_fewer_axle_single_trailer_trucks", h.FourOrFewerAxleSingleTrailer},
		{"five_axle_single_trailer_trucks", h.FiveAxleSingleTrailerTrucks},
		{"six_or_more_axle_single_trailer_trucks", h.SixOrMoreAxleSingleTrailer},
		{"five_or_fewer_axle_multi_trailer_trucks", h.FiveOrFewerAxleMultiTrailer},
		{"six_axle_multi_trailer_trucks", h.SixAxleMultiTrailerTrucks},
		{"seven_or_more_axle_multi_trailer_trucks", h.SevenOrMoreAxleMultiTrailer},
		{"unclassified_vehicle", h.UnclassifiedVehicle},
	}
}

// ClassNote is appended below class reports.
const ClassNote = "Note: Unclassified vehicles are included in the 'passenger_cars' count."

// HourVolume is one (day, hour-of-day) volume as returned by the database.
type HourVolume struct {
	Date   Date  `mapstructure:"date"`
	Hour   int   `mapstructure:"hour"`
	Volume int64 `mapstructure:"volume"`
}

// SlotName returns the 12-hour clock label of an hour of day, e.g. AM12 for 0
// and PM1 for 13.
func SlotName(hour int) string {
	switch {
	case hour == 0:
		return "AM12"
	case hour < 12:
		return "AM" + strconv.Itoa(hour)
	case hour == 12:
		return "PM12"
	default:
		return "PM" + strconv.Itoa(hour-12)
	}
}

// NonNormalDay is one calendar day reshaped into 24 hour slots. A slot with no
// data is nil. Total is set only when every slot holds a value.
type NonNormalDay struct {
	Date  Date
	Slots [HoursPerDay]*int64
	Total *int64
}

// Set stores the volume of one hour of the day.
func (d *NonNormalDay) Set(hour int, volume int64) {
	if hour < 0 || hour >= HoursPerDay {
		return
	}
	v := volume
	d.Slots[hour] = &v
}

// Complete reports whether all 24 slots carry data.
func (d *NonNormalDay) Complete() bool {
	for _, s := range d.Slots {
		if s == nil {
			return false
		}
	}
	return true
}

// ComputeTotal fills Total when the day is complete and clears it otherwise.
func (d *NonNormalDay) ComputeTotal() {
	if !d.Complete() {
		d.Total = nil
		return
	}
	var sum int64
	for _, s := range d.Slots {
		sum += *s
	}
	d.Total = &sum
}

func (d NonNormalDay) Day() Date { return d.Date }

func (d NonNormalDay) Columns() []Column {
	cols := make([]Column, 0, HoursPerDay+2)
	cols = append(cols, Column{"date", d.Date})
	for hour, s := range d.Slots {
		cols = append(cols, Column{SlotName(hour), s})
	}
	return append(cols, Column{"total", d.Total})
}

// MarshalJSON keeps the slots in clock order.
func (d NonNormalDay) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range d.Columns() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(col.Name))
		buf.WriteByte(':')
		b, err := json.Marshal(col.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
