package oracle

import (
	"fmt"
	"math/rand"
	"reflect"
	"sync"
)

// defaultGeneratorSeed keeps default-constructed managers reproducible
// run to run. Callers wanting varied values supply their own generator.
const defaultGeneratorSeed = 1

// ValueGenerator is the value-generation collaborator behind
// Manager.GenerateValue: it produces a representative value for a
// parameter type.
type ValueGenerator interface {
	Generate(t reflect.Type) (any, error)
}

// RandomGenerator produces seeded pseudo-random values for the common
// kinds. Deterministic for a fixed seed.
//
// Thread-safe via internal mutex.
type RandomGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomGenerator creates a generator with the given seed.
func NewRandomGenerator(seed int64) *RandomGenerator {
	return &RandomGenerator{rnd: rand.New(rand.NewSource(seed))}
}

const generatedStringLen = 8

// Generate implements ValueGenerator for bool, the integer kinds,
// string, and slices of supported element types. Unsupported kinds are
// an error rather than a zero value, so a misconfigured test fails
// loudly.
func (g *RandomGenerator) Generate(t reflect.Type) (any, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.generate(t)
}

func (g *RandomGenerator) generate(t reflect.Type) (any, error) {
	switch t.Kind() {
	case reflect.Bool:
		return g.rnd.Intn(2) == 1, nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := reflect.New(t).Elem()
		v.SetInt(g.rnd.Int63n(1 << 16))
		return v.Interface(), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := reflect.New(t).Elem()
		v.SetUint(uint64(g.rnd.Int63n(1 << 16)))
		return v.Interface(), nil

	case reflect.String:
		buf := make([]byte, generatedStringLen)
		for i := range buf {
			buf[i] = byte('a' + g.rnd.Intn(26))
		}
		return string(buf), nil

	case reflect.Slice:
		n := g.rnd.Intn(4)
		s := reflect.MakeSlice(t, 0, n)
		for i := 0; i < n; i++ {
			elem, err := g.generate(t.Elem())
			if err != nil {
				return nil, err
			}
			s = reflect.Append(s, reflect.ValueOf(elem))
		}
		return s.Interface(), nil

	default:
		return nil, fmt.Errorf("cannot generate value of type %v", t)
	}
}
