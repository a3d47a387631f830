package xmlpatch

import (
	"fmt"
	"slices"
	"sync"

	"github.com/signadot/xmlpatch/ir"
	"github.com/signadot/xmlpatch/mergeop"
)

// DecodeFunc builds an operation of a registered class from its element.
type DecodeFunc func(el *ir.Node, source string) (Operation, error)

var (
	mu      sync.RWMutex
	classes = map[string]DecodeFunc{}
)

func Register(class string, f DecodeFunc) error {
	mu.Lock()
	defer mu.Unlock()
	_, present := classes[class]
	if present {
		return fmt.Errorf("%s: %w", class, ErrClassExists)
	}
	classes[class] = f
	return nil
}

func Lookup(class string) DecodeFunc {
	mu.RLock()
	defer mu.RUnlock()
	return classes[class]
}

// Classes returns the registered class names, sorted.
func Classes() []string {
	mu.RLock()
	defer mu.RUnlock()
	res := make([]string, 0, len(classes))
	for c := range classes {
		res = append(res, c)
	}
	slices.Sort(res)
	return res
}

func init() {
	for _, k := range mergeop.Kinds() {
		Register(k.String(), decodeDescriptor(k))
		Register("CopyOperation."+k.String(), decodeDescriptor(k))
	}
	Register("PatchOperationSet", decodeLiteral(mergeop.Set))
	Register("PatchOperationSet.Operation", decodeLiteral(mergeop.Set))
	Register("PatchOperationTryAdd", decodeLiteral(mergeop.TryAdd))
	Register("PatchOperationTryAdd.Operation", decodeLiteral(mergeop.TryAdd))
	Register("Generator", decodeGenerator(Splice))
	Register("DefGenerator", decodeGenerator(Defs))
	Register("GeneratorOperation.DefGenerator", decodeGenerator(Defs))
	Register("PatchGenerator", decodeGenerator(Patch))
	Register("GeneratorOperation.PatchGenerator", decodeGenerator(Patch))
	Register("Deferred", decodeDeferred)
	Register("PostInheritanceOperation.Patch", decodeDeferred)
	Register("Sequence", decodeSequence)
	Register("PatchOperationSequence", decodeSequence)
}
