// Package upstream streams packuments and tarballs from an upstream
// npm-protocol registry without buffering response bodies.
package upstream
