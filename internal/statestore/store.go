// Package statestore provides the namespaced key/value store the tracker
// persists samples into, with in-memory, SQLite and NATS JetStream KV
// backends, plus the value:timestamp sample encoding.
package statestore

import (
	"strconv"
	"strings"
)

// Store is a namespaced key/value store. Get reports absence via its
// second return; it never fails. Implementations must be safe for
// concurrent use, though the tracker itself serializes access.
type Store interface {
	// Get returns the stored value for key within group, if any.
	Get(group, key string) (string, bool)

	// Set stores value for key within group, replacing any prior value.
	Set(group, key, value string) error

	// Close releases backend resources.
	Close() error
}

// AutoweedKey is the store key of the global autoweed flag within the
// user group.
const AutoweedKey = "autoweed"

// UserGroup is the namespace for per-user flags: "<root>.<user>".
func UserGroup(root, user string) string {
	return root + "." + user
}

// RegionGroup is the namespace for one region's samples:
// "<root>.<user>.<regionID>".
func RegionGroup(root, user string, regionID int) string {
	return root + "." + user + "." + strconv.Itoa(regionID)
}

// EncodeSample renders a sample in the persisted "<value>:<timestamp>"
// form.
func EncodeSample(value int, timestamp int64) string {
	return strconv.Itoa(value) + ":" + strconv.FormatInt(timestamp, 10)
}

// ParseSample decodes a persisted sample. ok is false when the content is
// malformed: wrong field count or non-numeric fields. Malformed samples
// are treated as absent by callers, never as errors.
func ParseSample(raw string) (value int, timestamp int64, ok bool) {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return 0, 0, false
	}
	value, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	timestamp, err = strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return value, 0, false
	}
	return value, timestamp, true
}
