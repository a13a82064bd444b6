package registrystore

import "github.com/platinummonkey/registry/pkg/packageid"

func packumentKey(pkg packageid.Identifier) string {
	return "packument:" + pkg.String()
}

func tarballKey(pkg packageid.Identifier, version string) string {
	return "tarball:" + pkg.String() + ":" + version
}
