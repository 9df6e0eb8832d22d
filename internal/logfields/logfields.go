package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyTab     = "tab"
	KeyRegion  = "region_id"
	KeyPatch   = "patch"
	KeySensor  = "sensor_id"
	KeyProduce = "produce"
	KeyCount   = "count"
	KeyState   = "state"
	KeyBackend = "backend"
	KeyGroup   = "group"
	KeyKey     = "key"
	KeyPath    = "path"
	KeySubject = "subject"
	KeyURL     = "url"
	KeyError   = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Tab(t string) slog.Attr        { return slog.String(KeyTab, t) }
func Region(id int) slog.Attr       { return slog.Int(KeyRegion, id) }
func Patch(name string) slog.Attr   { return slog.String(KeyPatch, name) }
func Sensor(id int) slog.Attr       { return slog.Int(KeySensor, id) }
func Produce(name string) slog.Attr { return slog.String(KeyProduce, name) }
func Count(n int) slog.Attr         { return slog.Int(KeyCount, n) }
func State(s string) slog.Attr      { return slog.String(KeyState, s) }
func Backend(b string) slog.Attr    { return slog.String(KeyBackend, b) }
func Group(g string) slog.Attr      { return slog.String(KeyGroup, g) }
func Key(k string) slog.Attr        { return slog.String(KeyKey, k) }
func Path(p string) slog.Attr       { return slog.String(KeyPath, p) }
func Subject(s string) slog.Attr    { return slog.String(KeySubject, s) }
func URL(u string) slog.Attr        { return slog.String(KeyURL, u) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
