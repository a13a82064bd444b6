// Package packageid parses and renders npm-style package identifiers,
// including scoped names (@scope/name), from URL path segments.
package packageid
