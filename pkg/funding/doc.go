// Package funding implements the funding-link resolution engine.
//
// The engine turns a list of dependency packages into a grouped, renderable
// set of funding links in four stages:
//
//  1. Source extraction: each package's repository URL is inspected and, for
//     Github-hosted packages, yields a repo-level and an owner-level Source.
//  2. Resolution: a forge client (see pkg/integrations/github) resolves every
//     Source into Links with a single batched API call and merges them into a
//     ResolvedMap.
//  3. Aggregation: packages are grouped by their exact set of Links, so that
//     dependencies sharing the same funding destinations render together.
//  4. Rendering: the grouped result is written as a deterministic box-drawn
//     tree. The output is byte-stable for identical input, so it can be
//     diffed between runs.
//
// The engine holds no state between runs and performs no I/O itself; network
// access lives entirely in the forge client.
package funding
