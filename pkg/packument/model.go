package packument

import "encoding/json"

// DistTags is the named-pointer set from a tag label (e.g. "latest") to a
// version string. Latest is broken out because it is the tag nearly every
// consumer cares about; Tags holds the rest, keyed by tag name.
type DistTags struct {
	Latest *string           `json:"latest,omitempty"`
	Tags   map[string]string `json:"-"`
}

// MarshalJSON flattens Latest and Tags into one object, the way npm's wire
// format represents dist-tags: {"latest": "1.0.0", "beta": "1.1.0-beta.0"}.
func (d DistTags) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, len(d.Tags)+1)
	for k, v := range d.Tags {
		out[k] = v
	}
	if d.Latest != nil {
		out["latest"] = *d.Latest
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a flat tag map and splits "latest" out from the rest.
func (d *DistTags) UnmarshalJSON(data []byte) error {
	var flat map[string]string
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	d.Tags = make(map[string]string, len(flat))
	for k, v := range flat {
		if k == "latest" {
			latest := v
			d.Latest = &latest
			continue
		}
		d.Tags[k] = v
	}
	return nil
}

// Signature is a signed attestation over a version's tarball.
type Signature struct {
	KeyID     string `json:"keyid"`
	Signature string `json:"sig"`
}

// Dist describes how to fetch and verify a version's tarball.
type Dist struct {
	Tarball        string      `json:"tarball"`
	Shasum         string      `json:"shasum"`
	Integrity      string      `json:"integrity,omitempty"`
	FileCount      *int        `json:"fileCount,omitempty"`
	UnpackedSize   *int64      `json:"unpackedSize,omitempty"`
	Signatures     []Signature `json:"signatures,omitempty"`
	NpmSignature   string      `json:"npm-signature,omitempty"`
}

// PackumentVersion is the per-version metadata blob embedded under
// packument.versions[<version>].
type PackumentVersion struct {
	ID            string          `json:"_id,omitempty"`
	Rev           string          `json:"_rev,omitempty"`
	Name          string          `json:"name,omitempty"`
	Version       string          `json:"version,omitempty"`
	GitHead       string          `json:"gitHead,omitempty"`
	NodeVersion   string          `json:"_nodeVersion,omitempty"`
	NpmVersion    string          `json:"_npmVersion,omitempty"`
	NpmUser       *Maintainer     `json:"_npmUser,omitempty"`
	Maintainers   []Maintainer    `json:"maintainers,omitempty"`
	Dist          Dist            `json:"dist"`
	HasShrinkwrap *bool           `json:"_hasShrinkwrap,omitempty"`
	Types         string          `json:"types,omitempty"`
	Meta          json.RawMessage `json:"-"`
}

// MarshalJSON merges the typed fields with whatever untyped fields were
// present in Meta, so that a round-tripped publish preserves fields this
// type doesn't know about (npm packuments carry many ad-hoc extensions).
func (v PackumentVersion) MarshalJSON() ([]byte, error) {
	merged := map[string]json.RawMessage{}
	if len(v.Meta) > 0 {
		if err := json.Unmarshal(v.Meta, &merged); err != nil {
			return nil, err
		}
	}

	type alias PackumentVersion
	raw, err := json.Marshal(alias(v))
	if err != nil {
		return nil, err
	}
	var typed map[string]json.RawMessage
	if err := json.Unmarshal(raw, &typed); err != nil {
		return nil, err
	}
	for k, val := range typed {
		merged[k] = val
	}
	return json.Marshal(merged)
}

// UnmarshalJSON captures fields this type doesn't know about into Meta,
// preserving them for re-serialization.
func (v *PackumentVersion) UnmarshalJSON(data []byte) error {
	type alias PackumentVersion
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*v = PackumentVersion(a)
	v.Meta = append(json.RawMessage(nil), data...)
	return nil
}

// Attachment is a base64-encoded gzipped tar archive embedded in a publish
// PUT, keyed in Packument.Attachments by "<name>-<version>.tgz".
type Attachment struct {
	ContentType string `json:"content_type"`
	Data        string `json:"data"`
}

// TimeInfo tracks packument/version creation and modification timestamps.
type TimeInfo struct {
	Created  string            `json:"created,omitempty"`
	Modified string            `json:"modified,omitempty"`
	Versions map[string]string `json:"-"`
}

// MarshalJSON flattens Created/Modified alongside the per-version timestamps,
// matching npm's wire shape for packument.time.
func (t TimeInfo) MarshalJSON() ([]byte, error) {
	out := make(map[string]string, len(t.Versions)+2)
	for k, v := range t.Versions {
		out[k] = v
	}
	if t.Created != "" {
		out["created"] = t.Created
	}
	if t.Modified != "" {
		out["modified"] = t.Modified
	}
	return json.Marshal(out)
}

// UnmarshalJSON splits "created"/"modified" out of the flat version->timestamp map.
func (t *TimeInfo) UnmarshalJSON(data []byte) error {
	var flat map[string]string
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	t.Versions = make(map[string]string, len(flat))
	for k, v := range flat {
		switch k {
		case "created":
			t.Created = v
		case "modified":
			t.Modified = v
		default:
			t.Versions[k] = v
		}
	}
	return nil
}

// Packument is the canonical per-package metadata document. All top-level
// fields are optional to accommodate partial documents submitted on
// publish; zero values and nil maps both mean "not supplied".
type Packument struct {
	ID             string                   `json:"_id,omitempty"`
	Rev            string                   `json:"_rev,omitempty"`
	Name           string                   `json:"name,omitempty"`
	Description    string                   `json:"description,omitempty"`
	Readme         string                   `json:"readme,omitempty"`
	ReadmeFilename string                   `json:"readmeFilename,omitempty"`
	Homepage       string                   `json:"homepage,omitempty"`
	License        string                   `json:"license,omitempty"`
	DistTags       *DistTags                `json:"dist-tags,omitempty"`
	Versions       map[string]PackumentVersion `json:"versions,omitempty"`
	Time           *TimeInfo                `json:"time,omitempty"`
	Maintainers    []Maintainer             `json:"maintainers,omitempty"`
	Stargazers     map[string]bool          `json:"stargazers,omitempty"`
	Attachments    map[string]Attachment    `json:"_attachments,omitempty"`
}

// AttachmentName returns the conventional attachment key for a version of
// this packument: "<name>-<version>.tgz".
func AttachmentName(pkgName, version string) string {
	return pkgName + "-" + version + ".tgz"
}
