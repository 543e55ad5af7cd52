package msg

const (
	TypeHello = 'h'
)

var (
	msgTypeMap = map[byte]interface{}{
		TypeHello: Hello{},
	}
)

// Hello opens a socket delivery. Frames do not carry their byte order, so
// the receiver learns it here before the first frame arrives.
type Hello struct {
	Version    string `json:"version"`
	SoftwareID uint8  `json:"software_id"`
	WireOrder  string `json:"wire_order"`
	Swapped    bool   `json:"swapped"`
}
