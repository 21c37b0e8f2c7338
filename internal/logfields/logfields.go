package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyCategory    = "category"
	KeyBrandingID  = "branding_id"
	KeyBranding    = "branding_name"
	KeyEnvironment = "environment"
	KeyOperation   = "operation"
	KeyStatus      = "status"
	KeyMethod      = "method"
	KeyPath        = "path"
	KeyURL         = "url"
	KeyRequestID   = "request_id"
	KeyRemoteAddr  = "remote_addr"
	KeyUserAgent   = "user_agent"
	KeyFile        = "file"
	KeyField       = "field"
	KeyBytes       = "bytes"
	KeyDurationMS  = "duration_ms"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Category(c string) slog.Attr     { return slog.String(KeyCategory, c) }
func BrandingID(id string) slog.Attr  { return slog.String(KeyBrandingID, id) }
func Branding(name string) slog.Attr  { return slog.String(KeyBranding, name) }
func Environment(e string) slog.Attr  { return slog.String(KeyEnvironment, e) }
func Operation(op string) slog.Attr   { return slog.String(KeyOperation, op) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func Method(m string) slog.Attr       { return slog.String(KeyMethod, m) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func RequestID(id string) slog.Attr   { return slog.String(KeyRequestID, id) }
func RemoteAddr(a string) slog.Attr   { return slog.String(KeyRemoteAddr, a) }
func UserAgent(ua string) slog.Attr   { return slog.String(KeyUserAgent, ua) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Field(f string) slog.Attr        { return slog.String(KeyField, f) }
func Bytes(n int) slog.Attr           { return slog.Int(KeyBytes, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
