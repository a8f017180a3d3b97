// Package models ships a few reaction networks in the model description
// format, so runs can be started without a model file.
package models

import (
	"fmt"
	"sort"
)

const decay = `# first-order decay A -> B
#molecules
A,0,1.0
B,0,0.0
#reactions
decay,1,2,1.0
#end
`

const reversible = `# A <-> B reaching equilibrium [B]/[A] = kf/kr
#molecules
A,0,1.0
B,0,0.0
#reactions
forward,1,2,2.0
reverse,2,1,1.0
#end
`

const dimerization = `# 2A -> A2
#molecules
A,0,1.0
A2,0,0.0
#reactions
dimerize,1 1,2,0.5
#end
`

const michaelisMenten = `# E + S <-> ES -> E + P
#molecules
E,0,0.1
S,0,1.0
ES,0,0.0
P,0,0.0
#reactions
bind,1 2,3,10.0
unbind,3,1 2,1.0
catalyse,3,1 4,2.0
#end
`

const lotkaVolterra = `# autocatalytic predator-prey with a constant food source
#molecules
food,1,1.0
prey,0,1.0
predator,0,0.5
#reactions
graze,1 2,1 2 2,1.0
hunt,2 3,3 3,1.0
starve,3,,0.5
#end
`

const zeroOrder = `# constant inflow with first-order outflow
#molecules
X,0,0.0
#reactions
inflow,,1,0.2
outflow,1,,0.1
#end
`

var builtin = map[string]string{
	"decay":            decay,
	"reversible":       reversible,
	"dimerization":     dimerization,
	"michaelis_menten": michaelisMenten,
	"lotka_volterra":   lotkaVolterra,
	"zero_order":       zeroOrder,
}

// Get returns the model description of a built-in network.
func Get(name string) (string, error) {
	src, ok := builtin[name]
	if !ok {
		return "", fmt.Errorf("unknown model: %s", name)
	}
	return src, nil
}

func List() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
