package offline

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/abhisek/mathquiz/internal/questions"
)

// VersionParam is the query parameter carrying the version token.
const VersionParam = "v"

// ErrInvalidVersion is returned for version tokens that cannot be embedded
// in a store name.
var ErrInvalidVersion = errors.New("invalid version token")

var versionRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._+-]*$`)

// NormalizeVersion validates a version token. A bare build number such as
// "21" becomes "v21".
func NormalizeVersion(token string) (string, error) {
	token = strings.TrimSpace(token)
	if !versionRe.MatchString(token) {
		return "", fmt.Errorf("%q: %w", token, ErrInvalidVersion)
	}
	if isDigits(token) {
		return "v" + token, nil
	}
	return token, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// VersionFromScriptURL extracts the version token from the v query
// parameter of a worker script URL. It returns "" when there is none.
func VersionFromScriptURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Query().Get(VersionParam)
}

// WithVersion returns raw with its v query parameter set to version.
func WithVersion(raw, version string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", raw, err)
	}
	q := u.Query()
	q.Set(VersionParam, version)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// StoreName is the cache store name for a prefix and version.
func StoreName(prefix, version string) string {
	return prefix + "-" + version
}

// StoreVersion returns the version embedded in a store name, if the name
// belongs to prefix.
func StoreVersion(prefix, name string) (string, bool) {
	v, ok := strings.CutPrefix(name, prefix+"-")
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// SortStoreNames orders store names by version, oldest first. Semantic
// versions compare as versions; other tokens sort after them in collated
// order. Names outside prefix sort last.
func SortStoreNames(prefix string, names []string) []string {
	out := slices.Clone(names)
	slices.SortStableFunc(out, func(a, b string) int {
		va, oka := StoreVersion(prefix, a)
		vb, okb := StoreVersion(prefix, b)
		switch {
		case oka != okb:
			if oka {
				return -1
			}
			return 1
		case !oka:
			return questions.Compare(a, b)
		}

		sa, sb := semver.IsValid(va), semver.IsValid(vb)
		switch {
		case sa && sb:
			if c := semver.Compare(va, vb); c != 0 {
				return c
			}
			return questions.Compare(va, vb)
		case sa:
			return -1
		case sb:
			return 1
		}
		return questions.Compare(va, vb)
	})
	return out
}
