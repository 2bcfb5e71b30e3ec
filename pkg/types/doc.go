// Package types defines the data model, configuration, typed errors, cache
// store contract, and event vocabulary shared by every component of the
// Expozr Navigator engine.
//
// The engine loads independently hosted bundles of functionality ("cargo")
// published by sources ("expozrs"). Each source describes its cargo in an
// inventory manifest fetched from a well-known path under the source's base
// location. Everything in this package is plain data: behavior lives in the
// internal packages and in pkg/navigator.
package types
