package logfields

import "log/slog"

// Canonical log field names shared across packages.
const (
	KeySource     = "source"
	KeyURL        = "url"
	KeyPath       = "path"
	KeyToken      = "token"
	KeyCount      = "count"
	KeyTitle      = "title"
	KeyResult     = "result"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

func Source(s string) slog.Attr       { return slog.String(KeySource, s) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Token(t uint64) slog.Attr        { return slog.Uint64(KeyToken, t) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Title(t string) slog.Attr        { return slog.String(KeyTitle, t) }
func Result(r string) slog.Attr       { return slog.String(KeyResult, r) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
