package repository

import "strings"

// Protocol is the transport a profile is opened with.
type Protocol string

const (
	ProtocolSSH  Protocol = "SSH"
	ProtocolSFTP Protocol = "SFTP"
)

// ParseProtocol accepts any letter case; empty means SSH.
func ParseProtocol(s string) (Protocol, error) {
	switch Protocol(strings.ToUpper(strings.TrimSpace(s))) {
	case "", ProtocolSSH:
		return ProtocolSSH, nil
	case ProtocolSFTP:
		return ProtocolSFTP, nil
	}
	return "", &ValidationError{Field: "protocol", Reason: "must be SSH or SFTP, got " + s}
}

// Reserved group labels. UngroupedLabel is how the empty group is displayed.
const (
	AllLabel       = "All"
	UngroupedLabel = "(ungrouped)"
)

// DefaultPort is used when a profile is entered without a port.
const DefaultPort = 22

// ProfileFields holds the caller-supplied columns of a connections row.
type ProfileFields struct {
	Group    string
	Name     string
	Host     string
	Port     int
	User     string
	Secret   string
	Protocol Protocol
}

// Profile represents a connections row.
type Profile struct {
	ID int64
	ProfileFields
	LastUsed string
}

// Address returns host:port.
func (p Profile) Address() string {
	return p.Host + ":" + itoa(p.Port)
}

// GroupLabel returns the display label of the profile's group.
func (p Profile) GroupLabel() string {
	if p.Group == "" {
		return UngroupedLabel
	}
	return p.Group
}

// Group represents a groups row.
type Group struct {
	ID   int64
	Name string
}

// ColumnWidth represents a table_layout row.
type ColumnWidth struct {
	Column string
	Width  int
}
