package install

import (
	"fmt"
	"strings"
)

const installMacro = "INSTALL"

// ResolvePath expands a leading $(NAME) macro in raw against the install
// root and the modules added so far. Paths without a leading macro are
// returned unchanged. A reference to an unknown (or not yet added) module
// returns the path unmodified together with ErrUnresolvedPathMacro, so a
// forward reference is always distinguishable from a resolved path.
func (c *InstallConfiguration) ResolvePath(raw string) (string, error) {
	if !strings.HasPrefix(raw, "$(") {
		return raw, nil
	}
	closing := strings.Index(raw, ")")
	if closing < 0 {
		return raw, fmt.Errorf("%w: unterminated macro in %q", ErrUnresolvedPathMacro, raw)
	}
	name := raw[2:closing]
	rest := raw[closing+1:]

	if name == installMacro {
		return c.InstallLocation + rest, nil
	}
	if mod, ok := c.Lookup(name); ok {
		return mod.AbsPath + rest, nil
	}
	return raw, fmt.Errorf("%w: $(%s) in %q", ErrUnresolvedPathMacro, name, raw)
}
