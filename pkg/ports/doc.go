/*
Package ports defines the driven ports (interfaces) for the state tree runtime.

These interfaces decouple the core logic from external implementations, allowing
the runtime to work with various snapshot stores, transports and render hosts.

# Key Interfaces

  - SnapshotStore: Responsible for persisting and loading tree Snapshots.
  - Fetcher: Responsible for retrieving remote assets for the download transformer.
  - RenderBackend: Provides GPU resources (textures) to representations that need them.
  - DistributedLocker: Provides distributed locking for concurrent session access.
*/
package ports
