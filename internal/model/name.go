package model

import (
	"fmt"
	"strings"
)

// ItemName is the name of a catalogue item. Club items carry a single common
// name, national items a first and last name.
type ItemName interface {
	DisplayName() string
}

// ClubName is an item known by one common name.
type ClubName struct {
	Name string
}

func (n ClubName) DisplayName() string { return n.Name }

// NationalName is an item known by first and last name.
type NationalName struct {
	First string
	Last  string
}

func (n NationalName) DisplayName() string {
	return strings.TrimSpace(n.First + " " + n.Last)
}

// UnknownName is used when the snapshot carried no name fields.
type UnknownName struct {
	AssetID int64
}

func (n UnknownName) DisplayName() string { return fmt.Sprintf("asset #%d", n.AssetID) }

// ResolveName picks the name variant from raw snapshot fields once, at parse time.
func ResolveName(assetID int64, common, first, last string) ItemName {
	if c := strings.TrimSpace(common); c != "" {
		return ClubName{Name: c}
	}
	if strings.TrimSpace(first) != "" || strings.TrimSpace(last) != "" {
		return NationalName{First: strings.TrimSpace(first), Last: strings.TrimSpace(last)}
	}
	return UnknownName{AssetID: assetID}
}
