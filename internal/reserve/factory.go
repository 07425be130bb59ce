package reserve

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rgehrsitz/gbrtax/internal/domain"
)

// ErrUnknownStrategy is returned by CreateStrategy for unrecognised names
var ErrUnknownStrategy = errors.New("unknown reserve strategy")

// CreateStrategy creates a reserve strategy by name. Names are matched
// case-insensitively.
func CreateStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case domain.StrategyIndividual:
		return NewIndividualStrategy(), nil
	case domain.StrategyEquitable:
		return NewEquitableStrategy(), nil
	default:
		return nil, fmt.Errorf("%w %q (expected one of %s)", ErrUnknownStrategy, name, strings.Join(domain.StrategyNames(), ", "))
	}
}

// AllStrategies returns every strategy in display order
func AllStrategies() []Strategy {
	return []Strategy{NewIndividualStrategy(), NewEquitableStrategy()}
}
