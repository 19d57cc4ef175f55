package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DeviceList is the configured device sequence.
//
// It decodes leniently: a devices value that is not a YAML sequence, or an
// entry that does not decode into a DeviceConfig, never fails the config
// load. The platform inspects IsSequence and each entry's Err instead, so a
// single bad entry only disables that device.
type DeviceList struct {
	entries  []DeviceEntry
	sequence bool
}

// DeviceEntry is one element of the device list.
type DeviceEntry struct {
	DeviceConfig

	// Index is the entry's position in the list.
	Index int

	// Err is set when the entry could not be decoded.
	Err error
}

// NewDeviceList builds a well-formed list from already decoded devices.
func NewDeviceList(devices ...DeviceConfig) DeviceList {
	entries := make([]DeviceEntry, len(devices))
	for i, d := range devices {
		entries[i] = DeviceEntry{DeviceConfig: d, Index: i}
	}
	return DeviceList{entries: entries, sequence: true}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *DeviceList) UnmarshalYAML(value *yaml.Node) error {
	l.entries = nil
	l.sequence = value.Kind == yaml.SequenceNode
	if !l.sequence {
		return nil
	}

	for i, node := range value.Content {
		entry := DeviceEntry{Index: i}
		if err := node.Decode(&entry.DeviceConfig); err != nil {
			entry.Err = fmt.Errorf("line %d: %w", node.Line, err)
		} else if node.Kind != yaml.MappingNode {
			entry.Err = fmt.Errorf("line %d: device entry must be a mapping", node.Line)
		}
		l.entries = append(l.entries, entry)
	}

	return nil
}

// IsSequence reports whether the devices value was present and a sequence.
func (l DeviceList) IsSequence() bool {
	return l.sequence
}

// Entries returns the device entries in configuration order.
func (l DeviceList) Entries() []DeviceEntry {
	return l.entries
}

// Len returns the number of entries, including ones that failed to decode.
func (l DeviceList) Len() int {
	return len(l.entries)
}

// Label returns the best available name for the entry in diagnostics.
func (e DeviceEntry) Label() string {
	switch {
	case e.SerialNumber != "":
		return e.SerialNumber
	case e.Name != "":
		return e.Name
	default:
		return fmt.Sprintf("#%d", e.Index)
	}
}
