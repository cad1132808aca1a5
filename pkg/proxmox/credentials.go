package proxmox

import (
	"fmt"
	"reflect"
	"strconv"
)

const (
	// DefaultRealm is the Proxmox authentication realm used when the
	// credential source does not name one.
	DefaultRealm = "pam"

	// DefaultPort is the standard Proxmox VE API port.
	DefaultPort = 8006
)

// Credential is the canonical connection record produced by ResolveCredentials.
// Immutable once constructed; the client holds it for the session's lifetime.
type Credential struct {
	Hostname string
	Username string
	Password string
	Realm    string
	Port     int
}

// Source is the accessor-method shape for caller-defined credential holders
// (e.g. a record type that keeps its fields unexported).
type Source interface {
	Hostname() string
	Username() string
	Password() string
}

// RealmSource optionally supplies the realm alongside Source.
type RealmSource interface {
	Realm() string
}

// PortSource optionally supplies the API port alongside Source.
type PortSource interface {
	Port() int
}

// ResolveCredentials normalizes a caller-supplied credential source into a
// Credential. Supported shapes, tried in order:
//
//  1. Credential or *Credential
//  2. map[string]string or map[string]any with hostname/username/password keys
//  3. any value implementing Source (plus optional RealmSource/PortSource)
//  4. a struct (or pointer to struct) with exported Hostname/Username/Password
//     fields, read reflectively
//
// Realm defaults to "pam" and port to 8006 whenever the source omits them.
// No network I/O happens here.
func ResolveCredentials(src any) (Credential, error) {
	switch v := src.(type) {
	case nil:
		return Credential{}, fmt.Errorf("%w: source is nil", ErrMalformedCredentials)
	case Credential:
		return finishCredential(v)
	case *Credential:
		if v == nil {
			return Credential{}, fmt.Errorf("%w: source is nil", ErrMalformedCredentials)
		}
		return finishCredential(*v)
	case map[string]string:
		m := make(map[string]any, len(v))
		for k, s := range v {
			m[k] = s
		}
		return fromMap(m)
	case map[string]any:
		return fromMap(v)
	}

	if s, ok := src.(Source); ok {
		return fromSource(s)
	}
	return fromStructFields(src)
}

func finishCredential(c Credential) (Credential, error) {
	if c.Realm == "" {
		c.Realm = DefaultRealm
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	return c, validateCredential(c)
}

func validateCredential(c Credential) error {
	var missing []string
	if c.Hostname == "" {
		missing = append(missing, "hostname")
	}
	if c.Username == "" {
		missing = append(missing, "username")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %v", ErrMalformedCredentials, missing)
	}
	return nil
}

func fromMap(m map[string]any) (Credential, error) {
	c := Credential{
		Hostname: stringValue(m["hostname"]),
		Username: stringValue(m["username"]),
		Password: stringValue(m["password"]),
		Realm:    stringValue(m["realm"]),
	}
	if p, ok := intValue(m["port"]); ok {
		c.Port = p
	}
	return finishCredential(c)
}

func fromSource(s Source) (Credential, error) {
	c := Credential{
		Hostname: s.Hostname(),
		Username: s.Username(),
		Password: s.Password(),
	}
	if rs, ok := s.(RealmSource); ok {
		c.Realm = rs.Realm()
	}
	if ps, ok := s.(PortSource); ok {
		c.Port = ps.Port()
	}
	return finishCredential(c)
}

// fromStructFields reads exported Hostname/Username/Password (and optional
// Realm/Port) fields off an arbitrary struct.
func fromStructFields(src any) (Credential, error) {
	rv := reflect.ValueOf(src)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Credential{}, fmt.Errorf("%w: source is nil", ErrMalformedCredentials)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return Credential{}, fmt.Errorf("%w: unsupported source type %T", ErrMalformedCredentials, src)
	}

	c := Credential{
		Hostname: structString(rv, "Hostname"),
		Username: structString(rv, "Username"),
		Password: structString(rv, "Password"),
		Realm:    structString(rv, "Realm"),
	}
	if f := rv.FieldByName("Port"); f.IsValid() && f.CanInt() {
		c.Port = int(f.Int())
	}
	return finishCredential(c)
}

func structString(rv reflect.Value, name string) string {
	f := rv.FieldByName(name)
	if f.IsValid() && f.Kind() == reflect.String {
		return f.String()
	}
	return ""
}

func stringValue(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	}
	return ""
}

func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i, true
		}
	}
	return 0, false
}
