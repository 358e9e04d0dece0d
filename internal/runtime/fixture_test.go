package runtime_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/registry"
	"github.com/qqdb/molstar/pkg/schema"
	"github.com/qqdb/molstar/pkg/task"
)

var errBoom = errors.New("boom")

// trackedPayload counts its disposals so tests can observe resource
// cleanup on removal and rollback.
type trackedPayload struct {
	value    string
	disposed *int
}

func (p *trackedPayload) Kind() domain.Kind { return domain.KindData }
func (p *trackedPayload) Dispose()          { *p.disposed++ }

// mutPayload is a pointer payload for in-place update tests: the pointer
// must survive an update while the value changes.
type mutPayload struct {
	value string
}

func (p *mutPayload) Kind() domain.Kind { return domain.KindData }

// fixture wires an engine-ready registry of small text transformers and
// counts every apply/update per transformer. The engine runs batches
// synchronously, so plain ints suffice.
type fixture struct {
	reg      *registry.Transformers
	applies  map[string]int
	updates  map[string]int
	disposed int
	gate     chan struct{}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		reg:     registry.NewTransformers(),
		applies: map[string]int{},
		updates: map[string]int{},
		gate:    make(chan struct{}),
	}

	register := func(def *registry.Transformer) {
		require.NoError(t, f.reg.Register(def))
	}

	// Root-only source. "null" switches the output to the empty terminal;
	// "salt" is declared but ignored so tests can change params without
	// changing the produced text.
	register(&registry.Transformer{
		Name: "make-data",
		To:   domain.KindData,
		Params: schema.Fields{
			"text": {Type: schema.String(), Default: "hello"},
			"null": {Type: schema.Bool(), Default: false},
			"salt": {Type: schema.Int(), Default: 0},
		},
		Apply: func(rt *task.Runtime, src *domain.Object, params map[string]any) (*domain.Object, error) {
			f.applies["make-data"]++
			if params["null"].(bool) {
				return domain.Null(""), nil
			}
			text := params["text"].(string)
			return domain.NewObject(domain.RawData{Bytes: []byte(text), Format: "text"}, text), nil
		},
		Update: func(rt *task.Runtime, src, current *domain.Object, params map[string]any) (domain.UpdateResult, error) {
			f.updates["make-data"]++
			if params["null"].(bool) {
				return domain.UpdateRecreate, nil
			}
			text := params["text"].(string)
			raw := current.Payload.(domain.RawData)
			if string(raw.Bytes) == text {
				return domain.UpdateUnchanged, nil
			}
			current.Payload = domain.RawData{Bytes: []byte(text), Format: "text"}
			current.Label = text
			return domain.UpdateUpdated, nil
		},
	})

	// Plain derived cell without update support: every change recreates.
	register(&registry.Transformer{
		Name: "upper",
		From: []domain.Kind{domain.KindData},
		To:   domain.KindData,
		Params: schema.Fields{
			"suffix": {Type: schema.String(), Default: ""},
		},
		Apply: func(rt *task.Runtime, src *domain.Object, params map[string]any) (*domain.Object, error) {
			f.applies["upper"]++
			raw := src.Payload.(domain.RawData)
			out := strings.ToUpper(string(raw.Bytes)) + params["suffix"].(string)
			return domain.NewObject(domain.RawData{Bytes: []byte(out), Format: "text"}, out), nil
		},
	})

	// Derived cell with a disposable payload.
	register(&registry.Transformer{
		Name: "track",
		From: []domain.Kind{domain.KindData},
		To:   domain.KindData,
		Apply: func(rt *task.Runtime, src *domain.Object, params map[string]any) (*domain.Object, error) {
			f.applies["track"]++
			raw := src.Payload.(domain.RawData)
			return domain.NewObject(&trackedPayload{value: string(raw.Bytes), disposed: &f.disposed}, "tracked"), nil
		},
	})

	// In-place updatable derived cell with a pointer payload, so tests
	// can check that updates keep the payload alive.
	register(&registry.Transformer{
		Name: "autoupd",
		From: []domain.Kind{domain.KindData},
		To:   domain.KindData,
		Apply: func(rt *task.Runtime, src *domain.Object, params map[string]any) (*domain.Object, error) {
			f.applies["autoupd"]++
			raw := src.Payload.(domain.RawData)
			return domain.NewObject(&mutPayload{value: string(raw.Bytes)}, "derived"), nil
		},
		Update: func(rt *task.Runtime, src, current *domain.Object, params map[string]any) (domain.UpdateResult, error) {
			f.updates["autoupd"]++
			raw := src.Payload.(domain.RawData)
			current.Payload.(*mutPayload).value = string(raw.Bytes)
			return domain.UpdateUpdated, nil
		},
	})

	// Same, but opts out of automatic updates.
	register(&registry.Transformer{
		Name: "noauto",
		From: []domain.Kind{domain.KindData},
		To:   domain.KindData,
		Apply: func(rt *task.Runtime, src *domain.Object, params map[string]any) (*domain.Object, error) {
			f.applies["noauto"]++
			raw := src.Payload.(domain.RawData)
			return domain.NewObject(domain.RawData{Bytes: raw.Bytes, Format: "text"}, "derived"), nil
		},
		Update: func(rt *task.Runtime, src, current *domain.Object, params map[string]any) (domain.UpdateResult, error) {
			f.updates["noauto"]++
			return domain.UpdateUpdated, nil
		},
		CanAutoUpdate: func(oldParams, newParams map[string]any) bool { return false },
	})

	// Update always demands recreation.
	register(&registry.Transformer{
		Name: "fussy",
		From: []domain.Kind{domain.KindData},
		To:   domain.KindData,
		Params: schema.Fields{
			"n": {Type: schema.Int(), Default: 0},
		},
		Apply: func(rt *task.Runtime, src *domain.Object, params map[string]any) (*domain.Object, error) {
			f.applies["fussy"]++
			return domain.NewObject(domain.RawData{Bytes: []byte("fussy"), Format: "text"}, "fussy"), nil
		},
		Update: func(rt *task.Runtime, src, current *domain.Object, params map[string]any) (domain.UpdateResult, error) {
			f.updates["fussy"]++
			return domain.UpdateRecreate, nil
		},
	})

	// Always fails.
	register(&registry.Transformer{
		Name: "fail",
		From: []domain.Kind{domain.KindData},
		To:   domain.KindData,
		Apply: func(rt *task.Runtime, src *domain.Object, params map[string]any) (*domain.Object, error) {
			f.applies["fail"]++
			return nil, errBoom
		},
	})

	// Refuses every parent at apply time.
	register(&registry.Transformer{
		Name:         "picky",
		From:         []domain.Kind{domain.KindData},
		To:           domain.KindData,
		IsApplicable: func(src *domain.Object) bool { return false },
		Apply: func(rt *task.Runtime, src *domain.Object, params map[string]any) (*domain.Object, error) {
			f.applies["picky"]++
			return domain.Null(""), nil
		},
	})

	// Blocks until the fixture gate closes; for concurrency tests.
	register(&registry.Transformer{
		Name: "hold",
		To:   domain.KindData,
		Apply: func(rt *task.Runtime, src *domain.Object, params map[string]any) (*domain.Object, error) {
			f.applies["hold"]++
			select {
			case <-f.gate:
			case <-rt.Context().Done():
				return nil, rt.Context().Err()
			}
			return domain.NewObject(domain.RawData{Bytes: []byte("held"), Format: "text"}, "held"), nil
		},
	})

	return f
}

func rec(ref, parent domain.Ref, transformer string, params map[string]any) domain.Transform {
	return domain.Transform{Ref: ref, Parent: parent, Transformer: transformer, Params: params}
}

func snap(records ...domain.Transform) domain.Snapshot {
	return domain.Snapshot{Records: records}
}
