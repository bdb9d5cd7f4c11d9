package importer

import "strings"

// MapRemote translates a local scan path into the path Sonarr sees, by
// swapping the configured local prefix for the remote one. Paths outside
// the local prefix, or an unset mapping, pass through unchanged.
func MapRemote(path, localPrefix, remotePrefix string) string {
	if localPrefix == "" || remotePrefix == "" {
		return path
	}

	lp := strings.TrimRight(localPrefix, "/\\")
	rp := strings.TrimRight(remotePrefix, "/\\")

	if path == lp {
		return rp
	}
	if strings.HasPrefix(path, lp+"/") || strings.HasPrefix(path, lp+"\\") {
		// Keep the separator style the local path used
		return rp + path[len(lp):]
	}
	return path
}
