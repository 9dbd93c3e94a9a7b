package formula

import "strings"

// Pair holds the two conversion formulas of a parameter. Either program
// may be nil, in which case values pass through unchanged.
type Pair struct {
	ProviderToConsumer *Program
	ConsumerToProvider *Program
}

// ParsePair compiles a formula string of the form
// "providerToConsumer\nconsumerToProvider". Either half may be empty, and
// an empty string yields the identity pair.
func ParsePair(s string) (Pair, error) {
	parts := strings.Split(s, "\n")
	if len(parts) > 2 {
		return Pair{}, ErrTooManyFormulas
	}

	var pair Pair
	var err error
	if src := strings.TrimSpace(parts[0]); src != "" {
		if pair.ProviderToConsumer, err = Compile(src); err != nil {
			return Pair{}, err
		}
	}
	if len(parts) == 2 {
		if src := strings.TrimSpace(parts[1]); src != "" {
			if pair.ConsumerToProvider, err = Compile(src); err != nil {
				return Pair{}, err
			}
		}
	}
	return pair, nil
}

// ToConsumer converts a provider value for display.
func (p Pair) ToConsumer(x float64) (float64, error) {
	if p.ProviderToConsumer == nil {
		return x, nil
	}
	return p.ProviderToConsumer.Eval(x)
}

// ToProvider converts a consumer value back for the provider.
func (p Pair) ToProvider(x float64) (float64, error) {
	if p.ConsumerToProvider == nil {
		return x, nil
	}
	return p.ConsumerToProvider.Eval(x)
}
