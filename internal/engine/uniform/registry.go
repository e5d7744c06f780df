package uniform

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registry errors.
var (
	ErrDuplicateBlock = errors.New("uniform block already registered")
	ErrUnknownBlock   = errors.New("unknown uniform block")
)

// Registry owns the uniform blocks of one renderer. Blocks are found by
// name or by handle; nothing is shared between registries.
type Registry struct {
	mu       sync.RWMutex
	byName   map[string]*Block
	byHandle map[uuid.UUID]*Block
	log      *zap.Logger
}

// NewRegistry creates an empty registry. A nil logger disables logging.
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{
		byName:   make(map[string]*Block),
		byHandle: make(map[uuid.UUID]*Block),
		log:      log,
	}
}

// Register plans the fields and allocates a block for them.
func (r *Registry) Register(name string, fields []Field) (*Block, error) {
	plan, err := NewPlan(fields)
	if err != nil {
		return nil, fmt.Errorf("planning block %s: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateBlock, name)
	}

	block := NewBlock(name, plan)
	r.byName[name] = block
	r.byHandle[block.Handle] = block

	r.log.Debug("registered uniform block",
		zap.String("block", name),
		zap.Stringer("handle", block.Handle),
		zap.Int("fields", plan.Len()),
		zap.Uint32("size", plan.TotalSize()))

	return block, nil
}

// Lookup returns the block registered under name.
func (r *Registry) Lookup(name string) (*Block, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	block, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBlock, name)
	}
	return block, nil
}

// ByHandle returns the block with the given handle.
func (r *Registry) ByHandle(id uuid.UUID) (*Block, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	block, ok := r.byHandle[id]
	return block, ok
}

// Remove drops a block from the registry.
func (r *Registry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if block, ok := r.byName[name]; ok {
		delete(r.byHandle, block.Handle)
		delete(r.byName, name)
	}
}

// Names returns the registered block names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
