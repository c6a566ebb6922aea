package loadorder

import (
	"time"

	"github.com/mod-tools/loadorder/internal/domain"
)

// orderingStrategy is the capability LoadOrder delegates to for the parts
// of load/save/freshness-detection that differ by OrderingMethod. This
// mirrors the teacher's linker.Linker pattern (one small interface, one
// constructor switching on a method/kind enum) rather than sprinkling
// method-specific conditionals through LoadOrder itself.
type orderingStrategy interface {
	// seed populates lo.plugins from whatever game-specific source (or
	// none, for TIMESTAMP) precedes the universal plugins-folder scan.
	seed(lo *LoadOrder) error
	// finalize runs after the plugins-folder scan: TIMESTAMP sorts by
	// mtime, then every strategy records the watermark mtime it watches.
	finalize(lo *LoadOrder, folderMtime time.Time) error
	save(lo *LoadOrder, ap ActivePluginsCollaborator) error
	hasChanged(lo *LoadOrder) (bool, error)
}

// newStrategy selects the strategy for a game's ordering method.
func newStrategy(method domain.OrderingMethod) orderingStrategy {
	switch method {
	case domain.Textfile:
		return textfileStrategy{}
	case domain.Asterisk:
		return asteriskStrategy{}
	default:
		return timestampStrategy{}
	}
}
