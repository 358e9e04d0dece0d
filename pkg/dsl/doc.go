/*
Package dsl provides a fluent builder for state-tree snapshots.

It lets programs construct transform trees in type-safe Go instead of
hand-writing snapshot records or YAML build scripts. Children are attached
through parent handles, so parent-before-child ordering holds by
construction and an edge to an unknown parent cannot be expressed.

Example usage:

	b := dsl.New(dsl.WithName("density demo"))

	data := b.Root().
		Apply("download").
		Ref("data").
		Param("url", "https://files.rcsb.org/maps/1tqn.ccp4")

	volume := data.Apply("volume-from-ccp4").Ref("volume")
	volume.Apply("direct-volume-repr").Tag("repr")

	snap, err := b.Build()
	// snap commits through molstar.Plugin or internal/runtime.

Builders can also start from a committed snapshot with From, edit params
through Find, and drop whole subtrees with Delete, which is how
incremental scene edits are expressed.
*/
package dsl
