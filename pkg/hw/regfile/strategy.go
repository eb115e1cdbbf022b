package regfile

import (
	"math/big"
	"math/rand"
	"strings"
	"time"

	"github.com/Manu343726/isasim/pkg/utils"
)

// How predicate registers are initialized
type PredicateStrategy uint

const (
	// All predicate bits set
	PredicateStrategy_AllTrue PredicateStrategy = iota

	// All predicate bits cleared
	PredicateStrategy_AllFalse

	// Uniformly random predicate bits
	PredicateStrategy_Random

	// Predicates keep their reset contents
	PredicateStrategy_None
)

func (s PredicateStrategy) String() string {
	switch s {
	case PredicateStrategy_AllTrue:
		return "ALL_TRUE"
	case PredicateStrategy_AllFalse:
		return "ALL_FALSE"
	case PredicateStrategy_Random:
		return "RANDOM"
	case PredicateStrategy_None:
		return "NONE"
	}

	panic("unreachable")
}

func PredicateStrategies() []PredicateStrategy {
	return utils.Iota(int(PredicateStrategy_None)+1, func(i int) PredicateStrategy { return PredicateStrategy(i) })
}

// Parses a strategy name (ALL_TRUE, ALL_FALSE, RANDOM, NONE), case insensitive
func ParsePredicateStrategy(name string) (PredicateStrategy, error) {
	for _, strategy := range PredicateStrategies() {
		if strings.EqualFold(strategy.String(), strings.TrimSpace(name)) {
			return strategy, nil
		}
	}

	return 0, utils.MakeError(ErrInvalidStrategy, "'%v', expected one of %v", name, PredicateStrategies())
}

func newRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return rand.New(rand.NewSource(seed))
}

// Initializes all predicate registers following the given strategy
func (rf *RegisterFile) InitPredicates(strategy PredicateStrategy) {
	width := rf.Width(RegisterClass_Predicate)

	for _, p := range rf.p {
		switch strategy {
		case PredicateStrategy_AllTrue:
			p.SetPattern(utils.BigAllOnes(width))
		case PredicateStrategy_AllFalse:
			p.SetPattern(new(big.Int))
		case PredicateStrategy_Random:
			p.SetPattern(new(big.Int).Rand(rf.rng, utils.BigPow2(width)))
		case PredicateStrategy_None:
		default:
			panic("unreachable")
		}
	}
}
