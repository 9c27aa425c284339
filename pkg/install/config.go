package install

import "fmt"

// Well-known module names that derive registry-level paths when added.
const (
	NameEPICSBase    = "EPICS_BASE"
	NameSupport      = "SUPPORT"
	NameAreaDetector = "AREA_DETECTOR"
)

// DefaultEpicsArch is the architecture suffix used for macro-file
// eligibility unless the caller overrides it.
const DefaultEpicsArch = "linux-x86_64"

// defaultInjectorTargets maps well-known fragment names to their target
// files for fragments that carry no __TARGET_LOC__ directive.
var defaultInjectorTargets = map[string]string{
	"AD_RELEASE_CONFIG": "$(AREA_DETECTOR)/configure/RELEASE_PRODS.local",
	"AUTOSAVE_CONFIG":   "$(AREA_DETECTOR)/ADCore/iocBoot/commonPlugin_settings.req",
	"MAKEFILE_CONFIG":   "$(AREA_DETECTOR)/ADCore/ADApp/commonDriverMakefile",
	"PLUGIN_CONFIG":     "$(AREA_DETECTOR)/ADCore/iocBoot/commonPlugins.cmd",
}

// InjectorFile is one named template fragment and its resolved target.
type InjectorFile struct {
	Name      string `yaml:"name"`
	RawTarget string `yaml:"raw_target"`
	Target    string `yaml:"target"`
	Contents  string `yaml:"-"`
}

// MacroPair is one key/value override read from a macro file.
type MacroPair struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// InstallConfiguration is the resolved module registry for one manifest.
// Modules keep manifest order; later entries may reference the paths of
// earlier ones. It is mutated only while parsing and read-only afterward.
type InstallConfiguration struct {
	InstallLocation string `yaml:"install_location"`
	ConfigurePath   string `yaml:"configure_path"`
	EpicsArch       string `yaml:"epics_arch"`

	Modules       []*Module       `yaml:"modules"`
	InjectorFiles []*InjectorFile `yaml:"injector_files"`
	Macros        []MacroPair     `yaml:"macros"`

	BasePath    string `yaml:"base_path,omitempty"`
	SupportPath string `yaml:"support_path,omitempty"`
	ADPath      string `yaml:"ad_path,omitempty"`

	byName map[string]*Module
}

// NewInstallConfiguration creates an empty registry rooted at installLocation.
func NewInstallConfiguration(installLocation, configurePath string) *InstallConfiguration {
	return &InstallConfiguration{
		InstallLocation: installLocation,
		ConfigurePath:   configurePath,
		EpicsArch:       DefaultEpicsArch,
		byName:          map[string]*Module{},
	}
}

// Lookup returns the module previously added under name.
func (c *InstallConfiguration) Lookup(name string) (*Module, bool) {
	mod, ok := c.byName[name]
	return mod, ok
}

// AddModule resolves the module's path macros and appends it to the
// registry. The module is appended even when its path macro cannot be
// resolved; the returned ErrUnresolvedPathMacro lets the caller decide
// whether that aborts the parse. A duplicate well-known name is rejected
// without overwriting the already-derived path.
func (c *InstallConfiguration) AddModule(m *Module) error {
	if _, ok := c.byName[m.Name]; ok && isWellKnown(m.Name) {
		return fmt.Errorf("%w: %s", ErrDuplicateWellKnown, m.Name)
	}

	m.RelPath = m.expandVersion(m.RelPath)
	m.Repository = m.expandVersion(m.Repository)

	abs, resolveErr := c.ResolvePath(m.RelPath)
	m.AbsPath = abs

	c.Modules = append(c.Modules, m)
	c.byName[m.Name] = m

	if resolveErr == nil {
		switch m.Name {
		case NameEPICSBase:
			c.BasePath = m.AbsPath
		case NameSupport:
			c.SupportPath = m.AbsPath
		case NameAreaDetector:
			c.ADPath = m.AbsPath
		}
	}
	return resolveErr
}

// AddInjectorFile resolves the fragment's target link and attaches it.
// Fragments without a __TARGET_LOC__ directive fall back to the built-in
// target table; a fragment with no target at all is rejected.
func (c *InstallConfiguration) AddInjectorFile(name, contents, rawTarget string) error {
	if rawTarget == "" {
		rawTarget = defaultInjectorTargets[name]
	}
	if rawTarget == "" {
		return fmt.Errorf("injector file %s has no target", name)
	}
	target, err := c.ResolvePath(rawTarget)
	c.InjectorFiles = append(c.InjectorFiles, &InjectorFile{
		Name:      name,
		RawTarget: rawTarget,
		Target:    target,
		Contents:  contents,
	})
	return err
}

// AddMacros appends macro pairs in file order.
func (c *InstallConfiguration) AddMacros(pairs []MacroPair) {
	c.Macros = append(c.Macros, pairs...)
}

func isWellKnown(name string) bool {
	switch name {
	case NameEPICSBase, NameSupport, NameAreaDetector:
		return true
	}
	return false
}
