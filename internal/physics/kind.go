package physics

import (
	"fmt"
	"strings"

	"github.com/san-kum/springsim/internal/dynamo"
)

// Kind selects a model variant.
type Kind int

const (
	KindSingleSpring Kind = iota
	KindChain
	KindLattice
	KindGrid
)

// Kinds lists every model variant in menu order.
var Kinds = []Kind{KindSingleSpring, KindChain, KindLattice, KindGrid}

var kindNames = map[Kind]string{
	KindSingleSpring: "single_spring",
	KindChain:        "chain",
	KindLattice:      "lattice",
	KindGrid:         "grid",
}

var kindTitles = map[Kind]string{
	KindSingleSpring: "Mass On Spring",
	KindChain:        "Chain Pendulum",
	KindLattice:      "Cube Of Jelly",
	KindGrid:         "Hanging Cloth",
}

var kindAliases = map[string]Kind{
	"single_spring":  KindSingleSpring,
	"spring":         KindSingleSpring,
	"mass_on_spring": KindSingleSpring,
	"chain":          KindChain,
	"pendulum":       KindChain,
	"lattice":        KindLattice,
	"jelly":          KindLattice,
	"cube":           KindLattice,
	"grid":           KindGrid,
	"cloth":          KindGrid,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Title is the human readable name shown in menus.
func (k Kind) Title() string {
	if t, ok := kindTitles[k]; ok {
		return t
	}
	return k.String()
}

// DefaultDt returns a stable timestep for the kind's default parameters.
func (k Kind) DefaultDt() float64 {
	switch k {
	case KindSingleSpring:
		return 0.015
	case KindChain:
		return 0.001
	case KindLattice:
		return 0.0001
	case KindGrid:
		return 0.001
	}
	return 0.001
}

// ParseKind resolves a model name or alias.
func ParseKind(name string) (Kind, error) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown model: %s", name)
	}
	return k, nil
}

// New builds the default model of the given kind.
func New(k Kind) (dynamo.Model, error) {
	switch k {
	case KindSingleSpring:
		return NewSingleSpring(DefaultSingleSpringParams())
	case KindChain:
		return NewChain(DefaultChainParams())
	case KindLattice:
		return NewLattice(DefaultLatticeParams())
	case KindGrid:
		return NewGrid(DefaultGridParams())
	}
	return nil, fmt.Errorf("unknown model kind: %d", int(k))
}
