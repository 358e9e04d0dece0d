package validator

import (
	"fmt"
	"strings"

	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/registry"
)

// ValidateSnapshot checks a snapshot against a transformer registry before
// it reaches the engine: every transformer must be registered, params must
// satisfy the declared schema, and each record must attach under a parent
// whose declared output kind the transformer accepts.
func ValidateSnapshot(reg *registry.Transformers, snap domain.Snapshot) error {
	// Structural integrity first; kind propagation needs resolved parents.
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("snapshot structure: %w", err)
	}

	// Declared output kind per ref. Records whose transformer is unknown
	// stay absent, so their subtrees are skipped rather than blamed.
	kinds := map[domain.Ref]domain.Kind{domain.RootRef: domain.KindRoot}

	var errors []string

	for _, rec := range snap.Records {
		def, err := reg.Get(rec.Transformer)
		if err != nil {
			errors = append(errors, fmt.Sprintf("Unknown transformer '%s' (record '%s')", rec.Transformer, rec.Ref))
			continue
		}

		if err := def.Params.Validate(rec.Params); err != nil {
			errors = append(errors, fmt.Sprintf("Invalid params on '%s': %v", rec.Ref, err))
		}

		if parentKind, known := kinds[rec.Parent]; known {
			if err := def.AcceptsKind(parentKind); err != nil {
				errors = append(errors, fmt.Sprintf("Record '%s': %v", rec.Ref, err))
			}
		}

		// Children validate against the declared output either way; the
		// mismatch above is reported once, not per descendant.
		kinds[rec.Ref] = def.To
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}

	return nil
}
