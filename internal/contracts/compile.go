package contracts

import (
	"context"
	"sync"

	"github.com/yope/ethereum-contract/pkg/ethereum"

	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

// compileCache memoizes compiler output keyed by a hash of the source
// text. Compilation is pure, so identical source yields identical output.
type compileCache struct {
	lock    sync.Mutex
	entries map[[32]byte]map[string]*ethereum.CompiledContract
}

func newCompileCache() *compileCache {
	return &compileCache{
		entries: make(map[[32]byte]map[string]*ethereum.CompiledContract),
	}
}

func (c *compileCache) get(key [32]byte) (map[string]*ethereum.CompiledContract, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	compiled, ok := c.entries[key]
	return compiled, ok
}

func (c *compileCache) put(key [32]byte, compiled map[string]*ethereum.CompiledContract) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.entries[key] = compiled
}

// Compile returns the compiled contract for the descriptor's key,
// delegating compilation to the node. A key missing from the compiler
// output is fatal for the request.
func (s *Service) Compile(ctx context.Context, d *Descriptor) (*ethereum.CompiledContract, error) {
	key := sha3.Sum256([]byte(d.Source))

	compiled, ok := s.cache.get(key)
	if !ok {
		var err error
		compiled, err = s.node.CompileSolidity(ctx, d.Source)
		if err != nil {
			return nil, errors.Wrap(err, "compile")
		}
		s.cache.put(key, compiled)
	}

	contract, ok := compiled[d.Key]
	if !ok {
		return nil, errors.Wrap(ErrNotCompiled, d.Key)
	}

	return contract, nil
}
