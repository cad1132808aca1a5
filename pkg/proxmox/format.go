package proxmox

import "fmt"

// Wire formats understood by the Proxmox API (the {format} segment of
// /api2/{format}/...).
const (
	FormatJSON  = "json"
	FormatHTML  = "html"
	FormatExtJS = "extjs"
	FormatText  = "text"
	FormatPNG   = "png"

	// FormatPNGB64 selects the png wire format and re-wraps the raw bytes as a
	// base64 data URI on the way out.
	FormatPNGB64 = "pngb64"

	// FormatObject selects json and is meant to decode into a keyed object.
	// Decoding currently behaves exactly like FormatJSON; kept as a separate
	// selection so callers opting in get the documented fallback.
	FormatObject = "object"
)

type presentation int

const (
	presentStructured presentation = iota // JSON-decode the data envelope
	presentRaw                            // pass body through untouched
	presentBase64                         // wrap bytes as a data URI
)

// resolvedFormat pins down both the wire format sent to the server and the
// client-side presentation of the response. Resolved once at configuration
// time, never re-derived per call.
type resolvedFormat struct {
	wire    string
	present presentation
}

func parseResponseFormat(s string) (resolvedFormat, error) {
	switch s {
	case "", FormatJSON, FormatObject:
		return resolvedFormat{wire: FormatJSON, present: presentStructured}, nil
	case FormatHTML, FormatExtJS, FormatText:
		return resolvedFormat{wire: s, present: presentRaw}, nil
	case FormatPNG:
		return resolvedFormat{wire: FormatPNG, present: presentRaw}, nil
	case FormatPNGB64:
		return resolvedFormat{wire: FormatPNG, present: presentBase64}, nil
	}
	return resolvedFormat{}, fmt.Errorf("unknown response format %q", s)
}
