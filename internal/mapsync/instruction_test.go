package mapsync

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestInstructionSerializesZeroCoordinates(t *testing.T) {
	// A marker on the equator/prime meridian intersection is a valid
	// position and must not lose its fields on the wire.
	data, err := json.Marshal(Instruction{Op: OpAdd, Marker: "m1", Entity: "a", Lat: 0, Lng: 0})
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"lat":0`, `"lng":0`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("serialized instruction %s missing %s", data, field)
		}
	}
}
