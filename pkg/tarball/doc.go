// Package tarball validates the base64-encoded gzipped tar archives
// attached to publish requests: bounded streaming decompression plus an
// inventory of the package/* entries, without ever materializing the
// unpacked size in memory.
package tarball
