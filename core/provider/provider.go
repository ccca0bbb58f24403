package provider

type Type int

const (
	ShardingAlgorithm Type = iota
)

var typeNames = []string{
	"ShardingAlgorithm",
}

func (t Type) String() string {
	if int(t) >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Provider is a named extension.
type Provider interface {
	GetName() string
}
