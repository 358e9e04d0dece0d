package dsl

import "github.com/qqdb/molstar/pkg/domain"

// Step is a handle to one pending transform, or to the tree root. Handles
// are values; copying one still addresses the same step.
type Step struct {
	b *Builder
	s *step
}

// Apply appends a child transform under this step and returns the child's
// handle for configuration and further chaining.
func (st Step) Apply(transformer string) Step {
	child := &step{parent: st.s, transformer: transformer}
	st.b.steps = append(st.b.steps, child)
	return Step{b: st.b, s: child}
}

// Ref names the step. Unnamed steps receive a generated ref at Build.
// Configuring the root handle is a no-op.
func (st Step) Ref(ref domain.Ref) Step {
	if st.s != nil {
		st.s.ref = ref
	}
	return st
}

// Params replaces the step's parameters with a deep copy of the given map.
func (st Step) Params(params map[string]any) Step {
	if st.s != nil {
		st.s.params = domain.CopyParams(params)
	}
	return st
}

// Param sets a single parameter.
func (st Step) Param(key string, value any) Step {
	if st.s != nil {
		if st.s.params == nil {
			st.s.params = make(map[string]any)
		}
		st.s.params[key] = value
	}
	return st
}

// Tag appends lookup tags to the step.
func (st Step) Tag(tags ...string) Step {
	if st.s != nil {
		st.s.tags = append(st.s.tags, tags...)
	}
	return st
}
