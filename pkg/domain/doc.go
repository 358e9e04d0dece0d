/*
Package domain contains the core domain models of the state tree.

It defines the fundamental entities of the scene graph: payload kinds and
objects, transform records, cells, snapshots and the diff between
snapshots. This package stays free of I/O and persistence concerns,
following Hexagonal Architecture principles.

# Key Entities

  - Payload / Object: The typed result a transformer produces (raw data,
    volume, model, structure, shape, or the null terminal).
  - Transform: The serializable record of one transform application.
  - Cell: The observable runtime state of a transform (status, object,
    version).
  - Snapshot: A whole tree as an ordered list of transforms, parents
    before children.
  - SnapshotDiff: The minimal change set between two snapshots.
*/
package domain
