package publish

import (
	"fmt"

	"github.com/platinummonkey/registry/pkg/packageid"
	"github.com/platinummonkey/registry/pkg/packument"
)

// Apply merges a Modification derived from Diff(old, new) into old,
// producing the document the composer should persist. pkg and
// publicBaseURL are only consulted for KindAddVersion, to rewrite the
// published version's tarball URL to this registry's own canonical
// location rather than whatever placeholder the publishing client sent.
func Apply(old packument.Packument, mod *Modification, pkg packageid.Identifier, publicBaseURL string) packument.Packument {
	result := old

	switch mod.Kind {
	case KindAddStar:
		result.Stargazers = cloneStars(old.Stargazers)
		result.Stargazers[mod.Star] = true

	case KindRemoveStar:
		result.Stargazers = cloneStars(old.Stargazers)
		delete(result.Stargazers, mod.Star)

	case KindAddTag:
		result.DistTags = setTag(old.DistTags, mod.Tag, mod.Version)

	case KindRemoveTag:
		result.DistTags = removeTag(old.DistTags, mod.Tag)

	case KindAddMaintainer:
		result.Maintainers = append(cloneMaintainers(old.Maintainers), packument.ParseByline(mod.Maintainer))

	case KindRemoveMaintainer:
		result.Maintainers = removeMaintainer(old.Maintainers, mod.Maintainer)

	case KindAddVersion:
		result = applyAddVersion(old, mod, pkg, publicBaseURL)
	}

	return result
}

func applyAddVersion(old packument.Packument, mod *Modification, pkg packageid.Identifier, publicBaseURL string) packument.Packument {
	result := old
	if result.Name == "" {
		result.Name = pkg.String()
	}
	if result.ID == "" {
		result.ID = pkg.String()
	}

	result.Versions = cloneVersions(old.Versions)
	version := *mod.NewVersion
	version.Dist.Tarball = tarballURL(publicBaseURL, pkg, mod.Version)
	result.Versions[mod.Version] = version

	result.DistTags = setTag(old.DistTags, mod.Tag, mod.Version)
	return result
}

func tarballURL(publicBaseURL string, pkg packageid.Identifier, version string) string {
	filename := fmt.Sprintf("%s-%s.tgz", pkg.Name, version)
	if pkg.Scope != "" {
		return fmt.Sprintf("%s/@%s/%s/-/%s", publicBaseURL, pkg.Scope, pkg.Name, filename)
	}
	return fmt.Sprintf("%s/%s/-/%s", publicBaseURL, pkg.Name, filename)
}

func cloneStars(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneMaintainers(m []packument.Maintainer) []packument.Maintainer {
	out := make([]packument.Maintainer, len(m), len(m)+1)
	copy(out, m)
	return out
}

func cloneVersions(m map[string]packument.PackumentVersion) map[string]packument.PackumentVersion {
	out := make(map[string]packument.PackumentVersion, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

func removeMaintainer(maintainers []packument.Maintainer, name string) []packument.Maintainer {
	out := make([]packument.Maintainer, 0, len(maintainers))
	for _, m := range maintainers {
		if m.Name != name {
			out = append(out, m)
		}
	}
	return out
}

func setTag(tags *packument.DistTags, name, version string) *packument.DistTags {
	result := cloneDistTags(tags)
	if name == "latest" {
		v := version
		result.Latest = &v
		return result
	}
	result.Tags[name] = version
	return result
}

func removeTag(tags *packument.DistTags, name string) *packument.DistTags {
	result := cloneDistTags(tags)
	if name == "latest" {
		result.Latest = nil
		return result
	}
	delete(result.Tags, name)
	return result
}

func cloneDistTags(tags *packument.DistTags) *packument.DistTags {
	out := &packument.DistTags{Tags: make(map[string]string)}
	if tags == nil {
		return out
	}
	for k, v := range tags.Tags {
		out.Tags[k] = v
	}
	if tags.Latest != nil {
		latest := *tags.Latest
		out.Latest = &latest
	}
	return out
}
