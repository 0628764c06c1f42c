// Package coverage implements the hierarchical functional-coverage engine:
// a dotted-name trie of containers and leaves (CoverPoint, CoverCross,
// CoverCheck) populated by sampling primitives, with aggregate metrics,
// observer callbacks, and XML/YAML export and merge.
//
// A Registry (obtained via DB) owns the trie. Leaves are built with
// NewCoverPoint/NewCoverCross/NewCoverCheck and registered with
// Registry.Add; containers for intermediate path segments are created
// automatically. Sampler and Section wrap a sampling call: Sampler.Invoke
// calls the wrapped function, if any, then delivers the same arguments to
// every bound leaf; Section.Sample delivers them to every composed leaf.
package coverage
