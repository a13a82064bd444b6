package publish

import (
	"github.com/platinummonkey/registry/pkg/apierrors"
	"github.com/platinummonkey/registry/pkg/packageid"
	"github.com/platinummonkey/registry/pkg/packument"
	"github.com/platinummonkey/registry/pkg/tarball"
)

// Diff derives the single Modification a publish PUT represents by
// comparing the packument already on file (old, the zero value if this is
// a brand new package) against the one the client submitted (new).
//
// Exactly one of the following must hold, checked in this order:
// a single stargazer added or removed, a single dist-tag re-pointed or
// removed, a single new version published with its tarball attachment, or
// a single maintainer added or removed. Anything else is rejected as an
// ambiguous or unsupported publish.
func Diff(old, new packument.Packument) (*Modification, error) {
	if mod, ok, err := diffStargazers(old, new); err != nil || ok {
		return mod, err
	}

	if mod, ok, err := diffDistTags(old, new); err != nil || ok {
		return mod, err
	}

	if mod, ok, err := diffNewVersion(new); err != nil || ok {
		return mod, err
	}

	if mod, ok, err := diffMaintainers(old, new); err != nil || ok {
		return mod, err
	}

	return nil, apierrors.BadRequest("could not determine a single publish modification from the submitted packument")
}

func diffStargazers(old, new packument.Packument) (*Modification, bool, error) {
	if old.Stargazers == nil || new.Stargazers == nil {
		return nil, false, nil
	}

	removed := setDifference(keysOf(old.Stargazers), keysOf(new.Stargazers))
	if len(removed) > 1 {
		return nil, false, apierrors.BadRequest("can only remove a single stargazer at a time")
	}
	if len(removed) == 1 {
		return &Modification{Kind: KindRemoveStar, Star: removed[0]}, true, nil
	}

	added := setDifference(keysOf(new.Stargazers), keysOf(old.Stargazers))
	if len(added) > 1 {
		return nil, false, apierrors.BadRequest("can only add a single stargazer at a time")
	}
	if len(added) == 1 {
		return &Modification{Kind: KindAddStar, Star: added[0]}, true, nil
	}

	return nil, false, nil
}

// diffDistTags handles a plain `npm dist-tag add/rm`: the submitted
// packument carries no new attachment, so it cannot be a version publish,
// yet its dist-tags differ from what's on file.
func diffDistTags(old, new packument.Packument) (*Modification, bool, error) {
	if old.DistTags == nil || new.DistTags == nil || len(new.Attachments) > 0 {
		return nil, false, nil
	}

	oldFlat := flattenTags(old.DistTags)
	newFlat := flattenTags(new.DistTags)

	var removedTags []string
	for tag := range oldFlat {
		if _, ok := newFlat[tag]; !ok {
			removedTags = append(removedTags, tag)
		}
	}
	var addedOrChangedTags []string
	for tag, version := range newFlat {
		if oldVersion, ok := oldFlat[tag]; !ok || oldVersion != version {
			addedOrChangedTags = append(addedOrChangedTags, tag)
		}
	}

	if len(removedTags) == 0 && len(addedOrChangedTags) == 0 {
		return nil, false, nil
	}

	if len(removedTags) > 0 {
		if len(removedTags) > 1 || len(addedOrChangedTags) > 0 {
			return nil, false, apierrors.BadRequest("can only change a single dist-tag at a time")
		}
		return &Modification{Kind: KindRemoveTag, Tag: removedTags[0]}, true, nil
	}

	if len(addedOrChangedTags) > 1 {
		return nil, false, apierrors.BadRequest("can only change a single dist-tag at a time")
	}
	tag := addedOrChangedTags[0]
	return &Modification{Kind: KindAddTag, Tag: tag, Version: newFlat[tag]}, true, nil
}

// diffNewVersion handles `npm publish`: the submitted packument carries
// exactly one new dist-tag pointing at exactly one new version, alongside
// that version's tarball attachment.
func diffNewVersion(new packument.Packument) (*Modification, bool, error) {
	if new.DistTags == nil || new.Versions == nil || new.Attachments == nil {
		return nil, false, nil
	}

	singleLatest := len(new.DistTags.Tags) == 0 && new.DistTags.Latest != nil
	singleTag := len(new.DistTags.Tags) == 1 && new.DistTags.Latest == nil
	if !singleLatest && !singleTag {
		return nil, false, nil
	}

	var tagName, versionName string
	if singleLatest {
		tagName = "latest"
		versionName = *new.DistTags.Latest
	} else {
		for k, v := range new.DistTags.Tags {
			tagName, versionName = k, v
		}
	}

	version, ok := new.Versions[versionName]
	if !ok {
		return nil, false, apierrors.BadRequest("publish did not include the version its dist-tag refers to")
	}

	pkgName := new.Name
	if pkgName == "" {
		pkgName = new.ID
	}
	pkg, err := packageid.Parse(pkgName)
	if err != nil {
		return nil, false, apierrors.BadRequest("publish did not carry a valid package name")
	}

	attachmentName := packument.AttachmentName(pkg.Name, versionName)
	attachment, ok := new.Attachments[attachmentName]
	if !ok {
		return nil, false, apierrors.BadRequestf("publish is missing the expected attachment %q", attachmentName)
	}
	if attachment.ContentType != "application/octet-stream" {
		return nil, false, apierrors.BadRequest("attachment content-type must be application/octet-stream")
	}

	result, err := tarball.Validate(attachment.Data)
	if err != nil {
		return nil, false, err
	}

	v := version
	return &Modification{
		Kind:       KindAddVersion,
		Tag:        tagName,
		Version:    versionName,
		NewVersion: &v,
		Tarball:    result.Decoded,
	}, true, nil
}

func diffMaintainers(old, new packument.Packument) (*Modification, bool, error) {
	if old.Maintainers == nil || new.Maintainers == nil {
		return nil, false, nil
	}

	oldNames := maintainerNames(old.Maintainers)
	newNames := maintainerNames(new.Maintainers)

	removed := setDifference(oldNames, newNames)
	if len(removed) > 1 {
		return nil, false, apierrors.BadRequest("can only remove a single maintainer at a time")
	}
	if len(removed) == 1 {
		return &Modification{Kind: KindRemoveMaintainer, Maintainer: removed[0]}, true, nil
	}

	added := setDifference(newNames, oldNames)
	if len(added) > 1 {
		return nil, false, apierrors.BadRequest("can only add a single maintainer at a time")
	}
	if len(added) == 1 {
		return &Modification{Kind: KindAddMaintainer, Maintainer: added[0]}, true, nil
	}

	return nil, false, nil
}

func keysOf(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func maintainerNames(maintainers []packument.Maintainer) []string {
	out := make([]string, 0, len(maintainers))
	for _, m := range maintainers {
		if m.Name != "" {
			out = append(out, m.Name)
		}
	}
	return out
}

func flattenTags(d *packument.DistTags) map[string]string {
	out := make(map[string]string, len(d.Tags)+1)
	for k, v := range d.Tags {
		out[k] = v
	}
	if d.Latest != nil {
		out["latest"] = *d.Latest
	}
	return out
}

// setDifference returns the elements of a not present in b.
func setDifference(a, b []string) []string {
	bSet := make(map[string]struct{}, len(b))
	for _, v := range b {
		bSet[v] = struct{}{}
	}
	var out []string
	for _, v := range a {
		if _, ok := bSet[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}
