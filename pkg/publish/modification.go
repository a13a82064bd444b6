package publish

import "github.com/platinummonkey/registry/pkg/packument"

// Kind identifies which single change a publish PUT represents.
type Kind int

const (
	KindAddStar Kind = iota
	KindRemoveStar
	KindAddTag
	KindRemoveTag
	KindAddMaintainer
	KindRemoveMaintainer
	KindAddVersion
)

func (k Kind) String() string {
	switch k {
	case KindAddStar:
		return "add_star"
	case KindRemoveStar:
		return "remove_star"
	case KindAddTag:
		return "add_tag"
	case KindRemoveTag:
		return "remove_tag"
	case KindAddMaintainer:
		return "add_maintainer"
	case KindRemoveMaintainer:
		return "remove_maintainer"
	case KindAddVersion:
		return "add_version"
	default:
		return "unknown"
	}
}

// Modification is the single, unambiguous change a publish PUT derives to.
// Only the fields relevant to Kind are populated.
type Modification struct {
	Kind Kind

	// Star, Maintainer: the user name added/removed, for the corresponding Kinds.
	Star       string
	Maintainer string

	// Tag, Version: the dist-tag name and the version it now points at
	// (AddTag), or just the tag name being removed (RemoveTag).
	Tag     string
	Version string

	// NewVersion, Tarball: the published version's metadata and its
	// decoded tarball bytes, for KindAddVersion.
	NewVersion *packument.PackumentVersion
	Tarball    []byte
}
