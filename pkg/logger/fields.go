package logger

import (
	"time"

	"go.uber.org/zap"
)

// Field type alias for convenience
type Field = zap.Field

// String constructs a field with the given key and value
func String(key string, val string) Field {
	return zap.String(key, val)
}

// Strings constructs a field with the given key and slice of strings
func Strings(key string, val []string) Field {
	return zap.Strings(key, val)
}

// Int constructs a field with the given key and value
func Int(key string, val int) Field {
	return zap.Int(key, val)
}

// Int64 constructs a field with the given key and value
func Int64(key string, val int64) Field {
	return zap.Int64(key, val)
}

// Bool constructs a field with the given key and value
func Bool(key string, val bool) Field {
	return zap.Bool(key, val)
}

// Time constructs a field with the given key and value
func Time(key string, val time.Time) Field {
	return zap.Time(key, val)
}

// Duration constructs a field with the given key and value
func Duration(key string, val time.Duration) Field {
	return zap.Duration(key, val)
}

// Error constructs a field that lazily stores err.Error() under the key "error"
func Error(err error) Field {
	return zap.Error(err)
}

// Any takes a key and an arbitrary value and chooses the best way to represent them
func Any(key string, val interface{}) Field {
	return zap.Any(key, val)
}

// ByteString constructs a field that carries UTF-8 encoded text as a []byte
func ByteString(key string, val []byte) Field {
	return zap.ByteString(key, val)
}

// HTTP request fields

func RequestID(id string) Field { return String("request_id", id) }
func TraceID(id string) Field   { return String("trace_id", id) }
func SpanID(id string) Field    { return String("span_id", id) }
func Method(m string) Field     { return String("method", m) }
func Path(p string) Field       { return String("path", p) }
func Query(q string) Field      { return String("query", q) }
func StatusCode(c int) Field    { return Int("status_code", c) }
func ClientIP(ip string) Field  { return String("client_ip", ip) }
func UserAgent(ua string) Field { return String("user_agent", ua) }
func BodySize(n int) Field      { return Int("body_size", n) }
func Protocol(p string) Field   { return String("protocol", p) }

// Latency constructs a field for request latency
func Latency(d time.Duration) Field {
	return Duration("latency", d)
}

// Component constructs a field for component name
func Component(name string) Field {
	return String("component", name)
}

// Subject constructs a field for the resolved identity subject
func Subject(sub string) Field {
	return String("subject", sub)
}

// Domain fields

// RepoID constructs a field for a repository record id
func RepoID(id string) Field {
	return String("repo_id", id)
}

// FileName constructs a field for an uploaded file name
func FileName(name string) Field {
	return String("file_name", name)
}

// FileCount constructs a field for the number of files in an upload
func FileCount(n int) Field {
	return Int("file_count", n)
}

// Upstream constructs a field for an upstream URL
func Upstream(url string) Field {
	return String("upstream", url)
}
