// Package github resolves funding links through the Github GraphQL API.
//
// All sources for all dependencies are combined into one query, so a run
// costs a single request against the rate limit no matter how many
// dependencies the project has. The response format is loose: GraphQL
// errors may coexist with partial data, so errors are classified one entry
// at a time into fatal (bad token, malformed response) and recoverable
// (a repository that no longer resolves) before any data is consumed.
//
// The package also implements the OAuth device flow used by `gofund login`
// to obtain a token without a pre-created PAT.
package github
