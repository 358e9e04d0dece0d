package domain

// Tag constants shared between behaviors and the runtime.
const (
	// TagBehaviorPrefix prefixes tags that tie cells to the behavior that
	// created them, e.g. "behavior:assembly-symmetry". Unregistering a
	// behavior removes the cells carrying its tag.
	TagBehaviorPrefix = "behavior:"
)

// BehaviorTag builds the cell tag for a behavior name.
func BehaviorTag(name string) string {
	return TagBehaviorPrefix + name
}
