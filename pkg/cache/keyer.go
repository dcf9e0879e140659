package cache

import "fmt"

// Keyer builds cache keys for conversion artifacts.
type Keyer interface {
	// TargetKey is the key of the target description converted from a
	// source whose content hash is sourceHash.
	TargetKey(sourceHash string, opts ConvertKeyOpts) string

	// StatsKey is the key of the statistics computed for the same source.
	StatsKey(sourceHash string, opts ConvertKeyOpts) string
}

// ConvertKeyOpts holds every option that changes the converted output.
type ConvertKeyOpts struct {
	Directed bool `json:"directed"`
}

// FormatVersion is mixed into every key. Bump it whenever the target
// encoding changes so that stale entries are never served.
const FormatVersion = 1

// DefaultKeyer is the standard [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a [DefaultKeyer].
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TargetKey implements [Keyer].
func (DefaultKeyer) TargetKey(sourceHash string, opts ConvertKeyOpts) string {
	return hashKey("target", FormatVersion, sourceHash, opts)
}

// StatsKey implements [Keyer].
func (DefaultKeyer) StatsKey(sourceHash string, opts ConvertKeyOpts) string {
	return hashKey("stats", FormatVersion, sourceHash, opts)
}

// String is used in debug logs.
func (DefaultKeyer) String() string {
	return fmt.Sprintf("default(v%d)", FormatVersion)
}
