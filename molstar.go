package molstar

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/qqdb/molstar/internal/compiler"
	"github.com/qqdb/molstar/internal/runtime"
	"github.com/qqdb/molstar/pkg/behavior"
	"github.com/qqdb/molstar/pkg/domain"
	"github.com/qqdb/molstar/pkg/dsl"
	"github.com/qqdb/molstar/pkg/geometry"
	"github.com/qqdb/molstar/pkg/observability"
	"github.com/qqdb/molstar/pkg/ports"
	"github.com/qqdb/molstar/pkg/registry"
	"github.com/qqdb/molstar/pkg/session"
	"github.com/qqdb/molstar/pkg/structure"
	"github.com/qqdb/molstar/pkg/task"
	"github.com/qqdb/molstar/pkg/transforms"
)

// Plugin is the high-level entry point for the molstar library.
// It wraps the internal state-tree runtime and provides a simplified API
// for consumers: registries, tree commits, snapshot sessions and change
// observation.
type Plugin struct {
	runtime  *runtime.Engine
	registry *registry.Set
	sessions *session.Manager
	stream   *observability.Stream
	compiler *compiler.Compiler

	fetcher  ports.Fetcher
	backend  ports.RenderBackend
	store    ports.SnapshotStore
	locker   ports.DistributedLocker
	logger   *slog.Logger
	hooks    []domain.LifecycleHooks
	observer []task.Observer
	extra    []*registry.Transformer
	pending  []behavior.Behavior
	enabled  map[string]behavior.Behavior

	Name string
}

// Option defines a functional option for configuring the Plugin.
type Option func(*Plugin)

// WithLifecycleHooks registers observability hooks. The option may be
// given more than once; hooks fire in registration order.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Plugin) {
		p.hooks = append(p.hooks, hooks)
	}
}

// WithObserver registers a task observer receiving start, progress and
// finish events for every tree task. May be given more than once.
func WithObserver(obs task.Observer) Option {
	return func(p *Plugin) {
		p.observer = append(p.observer, obs)
	}
}

// WithFetcher injects a custom asset fetcher, bypassing the default
// HTTP client. Tests and offline hosts route fixtures through this.
func WithFetcher(f ports.Fetcher) Option {
	return func(p *Plugin) {
		p.fetcher = f
	}
}

// WithRenderBackend attaches the host's GPU layer. Without it the
// plugin still runs; building a direct-volume representation then fails
// with domain.ErrNoRenderBackend.
func WithRenderBackend(b ports.RenderBackend) Option {
	return func(p *Plugin) {
		p.backend = b
	}
}

// WithStore enables snapshot sessions backed by the given store.
func WithStore(store ports.SnapshotStore) Option {
	return func(p *Plugin) {
		p.store = store
	}
}

// WithLocker adds distributed locking to the session manager, so two
// replicas never rebuild the same session at once. Requires WithStore.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(p *Plugin) {
		p.locker = locker
	}
}

// WithTransformers registers additional transformer definitions beyond
// the builtin core set.
func WithTransformers(defs ...*registry.Transformer) Option {
	return func(p *Plugin) {
		p.extra = append(p.extra, defs...)
	}
}

// WithBehaviors enables the given behaviors during New, after the core
// transformers are registered.
func WithBehaviors(bs ...behavior.Behavior) Option {
	return func(p *Plugin) {
		p.pending = append(p.pending, bs...)
	}
}

// WithLogger sets a custom structured logger for the plugin.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Plugin) {
		p.logger = logger
	}
}

// WithName sets a descriptive name, attached to every log record.
func WithName(name string) Option {
	return func(p *Plugin) {
		p.Name = name
	}
}

// New initializes a molstar Plugin: a registry set populated with the
// core transformers, an empty state tree and, when a store is given, a
// session manager over it.
func New(opts ...Option) (*Plugin, error) {
	p := &Plugin{
		compiler: compiler.NewCompiler(),
		enabled:  map[string]behavior.Behavior{},
	}
	for _, opt := range opts {
		opt(p)
	}

	// Ensure logger is initialized (so we don't pass nil to the runtime,
	// which would overwrite its default).
	if p.logger == nil {
		p.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if p.Name != "" {
		p.logger = p.logger.With("plugin", p.Name)
	}

	// If no fetcher was injected, default to a plain HTTP client.
	if p.fetcher == nil {
		p.fetcher = &httpFetcher{client: &http.Client{Timeout: 30 * time.Second}}
	}

	p.registry = registry.NewSet()
	if err := transforms.RegisterCore(p.registry, p.fetcher, p.backend); err != nil {
		return nil, fmt.Errorf("failed to register core transformers: %w", err)
	}
	for _, def := range p.extra {
		if err := p.registry.Transformers.Register(def); err != nil {
			return nil, fmt.Errorf("failed to register transformer: %w", err)
		}
	}

	// The stream's hooks come last so user hooks observe a cell before
	// watchers are woken for the tree it belongs to.
	p.stream = observability.NewStream()
	merged := observability.MergeHooks(append(p.hooks, p.stream.Hooks())...)

	p.runtime = runtime.NewEngine(p.registry.Transformers,
		runtime.WithLogger(p.logger),
		runtime.WithHooks(merged),
		runtime.WithObserver(task.Tee(p.observer...)),
	)

	if p.store != nil {
		sessionOpts := []session.Option{session.WithLogger(p.logger)}
		if p.locker != nil {
			sessionOpts = append(sessionOpts, session.WithLocker(p.locker))
		}
		p.sessions = session.NewManager(p.store, sessionOpts...)
	} else if p.locker != nil {
		return nil, fmt.Errorf("WithLocker requires WithStore")
	}

	for _, b := range p.pending {
		if err := p.EnableBehavior(b); err != nil {
			return nil, err
		}
	}
	p.pending = nil

	return p, nil
}

// Registry returns the plugin's registry set. Hosts register their own
// transformers, property providers and themes against it.
func (p *Plugin) Registry() *registry.Set { return p.registry }

// Sessions returns the session manager, or nil when no store was
// configured.
func (p *Plugin) Sessions() *session.Manager { return p.sessions }

// Fetcher returns the asset fetcher the plugin was built with.
func (p *Plugin) Fetcher() ports.Fetcher { return p.fetcher }

// Busy reports whether a commit batch is currently running.
func (p *Plugin) Busy() bool { return p.runtime.Busy() }

// Current returns a copy of the committed state tree.
func (p *Plugin) Current() domain.Snapshot { return p.runtime.Current() }

// Cells returns every cell of the live tree in parent-before-child
// order.
func (p *Plugin) Cells() []domain.Cell { return p.runtime.Cells() }

// Cell looks up a single cell by ref.
func (p *Plugin) Cell(ref domain.Ref) (domain.Cell, bool) { return p.runtime.Cell(ref) }

// FindByTag returns the cells whose transform carries the given tag.
func (p *Plugin) FindByTag(tag string) []domain.Cell { return p.runtime.FindByTag(tag) }

// Commit diffs the given snapshot against the live tree and applies the
// difference, blocking while another commit is in flight. A failed cell
// rolls the whole batch back.
func (p *Plugin) Commit(ctx context.Context, next domain.Snapshot) error {
	return p.runtime.Commit(ctx, next)
}

// TryCommit is Commit without the wait: it returns domain.ErrTreeBusy
// when another commit is in flight.
func (p *Plugin) TryCommit(ctx context.Context, next domain.Snapshot) error {
	return p.runtime.TryCommit(ctx, next)
}

// Build edits the current tree through a builder and commits the
// result. The callback adds, updates and deletes records; validation
// errors surface from the commit.
func (p *Plugin) Build(ctx context.Context, build func(*dsl.Builder)) error {
	b := dsl.From(p.runtime.Current())
	build(b)
	next, err := b.Build()
	if err != nil {
		return err
	}
	return p.runtime.Commit(ctx, next)
}

// BuildScript compiles a YAML build script and commits the resulting
// tree in place of the current one.
func (p *Plugin) BuildScript(ctx context.Context, data []byte) error {
	next, err := p.compiler.CompileBytes(data)
	if err != nil {
		return err
	}
	return p.runtime.Commit(ctx, next)
}

// Watch returns a channel delivering a TreeEvent after every commit or
// rollback. The channel closes when ctx is canceled.
func (p *Plugin) Watch(ctx context.Context) <-chan domain.TreeEvent {
	return p.stream.Watch(ctx)
}

// EnableBehavior registers the behavior's transformers, providers and
// themes against the plugin's registries.
func (p *Plugin) EnableBehavior(b behavior.Behavior) error {
	name := b.Name()
	if _, ok := p.enabled[name]; ok {
		return fmt.Errorf("behavior %q already enabled", name)
	}
	ctx := &behavior.Context{
		Registry: p.registry,
		Fetcher:  p.fetcher,
		Logger:   p.logger,
	}
	if err := b.Register(ctx); err != nil {
		return fmt.Errorf("behavior %q: %w", name, err)
	}
	p.enabled[name] = b
	return nil
}

// DisableBehavior unregisters a previously enabled behavior, restoring
// the registries to their pre-register state.
func (p *Plugin) DisableBehavior(name string) error {
	b, ok := p.enabled[name]
	if !ok {
		return fmt.Errorf("behavior %q is not enabled", name)
	}
	if err := b.Unregister(); err != nil {
		return fmt.Errorf("behavior %q: %w", name, err)
	}
	delete(p.enabled, name)
	return nil
}

// Behaviors lists the names of the enabled behaviors, sorted.
func (p *Plugin) Behaviors() []string {
	names := make([]string, 0, len(p.enabled))
	for name := range p.enabled {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SaveSession persists the current tree under the given session ID.
func (p *Plugin) SaveSession(ctx context.Context, id string) error {
	if p.sessions == nil {
		return fmt.Errorf("no snapshot store configured")
	}
	snap := p.runtime.Current()
	if snap.Name == "" {
		snap.Name = id
	}
	return p.sessions.Save(ctx, id, &snap)
}

// RestoreSession loads the snapshot saved under the given session ID
// and commits it, rebuilding every cell from its transform records.
func (p *Plugin) RestoreSession(ctx context.Context, id string) error {
	if p.sessions == nil {
		return fmt.Errorf("no snapshot store configured")
	}
	snap, err := p.sessions.Load(ctx, id)
	if err != nil {
		return err
	}
	return p.runtime.Commit(ctx, *snap)
}

// Superpose aligns the mobile structure cell onto the fixed one: it
// computes the least-squares transform over their paired coordinates
// and grafts a transform-conformation record under the mobile cell
// carrying that matrix. The returned report holds the transform and the
// RMSD after alignment.
func (p *Plugin) Superpose(ctx context.Context, fixed, mobile domain.Ref) (structure.Superposition, error) {
	fixedCoords, err := p.structureCoordinates(fixed)
	if err != nil {
		return structure.Superposition{}, err
	}
	mobileCoords, err := p.structureCoordinates(mobile)
	if err != nil {
		return structure.Superposition{}, err
	}
	sup, err := structure.Superpose(fixedCoords, mobileCoords)
	if err != nil {
		return structure.Superposition{}, err
	}
	err = p.Build(ctx, func(b *dsl.Builder) {
		if st, ok := b.Find(mobile); ok {
			st.Apply(transforms.NameTransformConformation).
				Param("matrix", sup.Transform[:]).
				Tag("superposed")
		}
	})
	return sup, err
}

func (p *Plugin) structureCoordinates(ref domain.Ref) ([]geometry.Vec3, error) {
	cell, ok := p.runtime.Cell(ref)
	if !ok {
		return nil, fmt.Errorf("superpose: no cell %q", ref)
	}
	if cell.Object == nil {
		return nil, fmt.Errorf("superpose: cell %q has no object", ref)
	}
	s, ok := cell.Object.Payload.(*structure.Structure)
	if !ok {
		return nil, fmt.Errorf("superpose: cell %q is %s, want a structure", ref, cell.Kind())
	}
	return s.Coordinates(), nil
}

// httpFetcher is the default Fetcher: a plain GET with a shared client.
// Hosts that need caching, mirrors or offline fixtures inject their own
// through WithFetcher.
type httpFetcher struct {
	client *http.Client
}

func (f *httpFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid asset url %q: %w", url, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
