package domain

import (
	"database/sql/driver"
	"fmt"
)

// Version is an optional version tag.
//
// The zero value is the unversioned marker. A set version always carries a non-empty
// tag, so "unversioned" and "version equal to the empty string" cannot be confused.
// At the storage boundary the unversioned marker is written as the empty string, which
// keeps it covered by the (name, version) unique constraint.
type Version struct {
	tag string
	set bool
}

// Unversioned returns the marker for the current, unversioned revision of a name.
func Unversioned() Version {
	return Version{}
}

// NewVersion returns a set version. The tag must not be empty.
func NewVersion(tag string) (Version, error) {
	if tag == "" {
		return Version{}, ErrEmptyVersion
	}
	return Version{tag: tag, set: true}, nil
}

// MustVersion is like NewVersion but panics on an empty tag.
func MustVersion(tag string) Version {
	v, err := NewVersion(tag)
	if err != nil {
		panic(err)
	}
	return v
}

// ParseVersion maps a stored or user-supplied tag back to a Version, treating the empty
// string as the unversioned marker.
func ParseVersion(tag string) Version {
	if tag == "" {
		return Unversioned()
	}
	return Version{tag: tag, set: true}
}

// IsSet reports whether v names an explicit version.
func (v Version) IsSet() bool {
	return v.set
}

// String returns the tag, or the empty string when unversioned.
func (v Version) String() string {
	return v.tag
}

// Value implements driver.Valuer.
func (v Version) Value() (driver.Value, error) {
	return v.tag, nil
}

// Scan implements sql.Scanner.
func (v *Version) Scan(src any) error {
	switch t := src.(type) {
	case nil:
		*v = Unversioned()
	case string:
		*v = ParseVersion(t)
	case []byte:
		*v = ParseVersion(string(t))
	default:
		return fmt.Errorf("cannot scan %T into Version", src)
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.tag), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Version) UnmarshalText(text []byte) error {
	*v = ParseVersion(string(text))
	return nil
}
