package tarball

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/platinummonkey/registry/pkg/apierrors"
)

const (
	// MaxFileCount bounds the number of entries a publish tarball may contain.
	MaxFileCount = 16000
	// MaxUnpackedSize bounds the sum of entry sizes a publish tarball may contain.
	MaxUnpackedSize = 1 << 30 // 1 GiB
)

// Result is the outcome of validating and decoding an attachment.
type Result struct {
	// Decoded is the base64-decoded attachment, byte-for-byte (still gzipped).
	Decoded []byte
	// FileCount is the number of tar entries seen.
	FileCount int
	// UnpackedSize is the sum of tar entry sizes seen.
	UnpackedSize int64
	// SawPackageJSON reports whether package/package.json was present.
	SawPackageJSON bool
}

// Validate base64-decodes data, gunzips it, and walks it as a USTAR
// archive entry-by-entry, enforcing MaxFileCount and MaxUnpackedSize and
// requiring every entry to live under "package/" with package/package.json
// present. It never reads entry contents, and never buffers more than the
// base64-decoded byte stream itself.
func Validate(data string) (*Result, error) {
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, apierrors.BadRequest(fmt.Sprintf("invalid base64 attachment data: %v", err))
	}

	gz, err := gzip.NewReader(bytes.NewReader(decoded))
	if err != nil {
		return nil, apierrors.BadRequest(fmt.Sprintf("attachment is not valid gzip: %v", err))
	}
	defer gz.Close()

	archive := tar.NewReader(gz)

	result := &Result{Decoded: decoded}
	for {
		hdr, err := archive.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apierrors.BadRequest(fmt.Sprintf("malformed tar entry: %v", err))
		}

		result.FileCount++
		result.UnpackedSize += hdr.Size

		if result.FileCount > MaxFileCount {
			return nil, apierrors.BadRequest("tarball exceeded maximum file count")
		}
		if result.UnpackedSize > MaxUnpackedSize {
			return nil, apierrors.BadRequest("tarball exceeded maximum unpacked size")
		}

		rest, ok := strings.CutPrefix(hdr.Name, "package/")
		if !ok {
			return nil, apierrors.BadRequest("tarball entry didn't start with 'package/'")
		}
		if rest == "package.json" {
			result.SawPackageJSON = true
		}
	}

	if !result.SawPackageJSON {
		return nil, apierrors.BadRequest("tarball did not contain package/package.json")
	}

	return result, nil
}
