package install

import "strings"

// URL kinds a module row can inherit from the most recent URL directive.
const (
	URLTypeGit  = "GIT_URL"
	URLTypeWget = "WGET_URL"
)

// Module is one buildable unit declared by a manifest row.
type Module struct {
	Name       string `yaml:"name"`
	Version    string `yaml:"version"`
	RelPath    string `yaml:"rel_path"`
	URLType    string `yaml:"url_type"`
	URL        string `yaml:"url"`
	Repository string `yaml:"repository"`
	Clone      bool   `yaml:"clone"`
	Build      bool   `yaml:"build"`

	// AbsPath is RelPath with all path macros resolved against the
	// configuration the module was added to.
	AbsPath string `yaml:"abs_path"`
}

// ParseFlag interprets a manifest YES/NO column. Anything other than YES
// (case-insensitive) is treated as NO.
func ParseFlag(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "YES")
}

// expandVersion substitutes the self-referential $(VERSION) macro.
func (m *Module) expandVersion(value string) string {
	return strings.ReplaceAll(value, "$(VERSION)", m.Version)
}
