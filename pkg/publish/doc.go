// Package publish derives the single Modification a publish PUT
// represents by diffing the previously stored packument against the one
// submitted by the client, and validates any embedded tarball attachment
// along the way.
package publish
