package parser

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sys/unix"

	"github.com/epics-tools/synstall/pkg/install"
)

const (
	// DefaultManifestName is the tabular manifest inside the configure dir.
	DefaultManifestName = "INSTALL_CONFIG"

	injectorDirName = "injectionFiles"
	macroDirName    = "macroFiles"
)

// Options controls one manifest parse.
type Options struct {
	ConfigurePath        string
	ManifestName         string
	ForceInstallLocation string
	AllowIllegal         bool
	EpicsArch            string
}

// Parse reads the manifest and its directive files into a resolved
// InstallConfiguration. Warnings accumulate for conditions that
// --allow-illegal downgrades from fatal; they are empty on a clean parse.
func Parse(opts Options) (*install.InstallConfiguration, []string, error) {
	if opts.ManifestName == "" {
		opts.ManifestName = DefaultManifestName
	}

	info, err := os.Stat(opts.ConfigurePath)
	if err != nil || !info.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", install.ErrConfigurePathNotFound, opts.ConfigurePath)
	}

	manifestPath := filepath.Join(opts.ConfigurePath, opts.ManifestName)
	file, err := os.Open(manifestPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", install.ErrConfigurePathNotFound, manifestPath)
	}
	defer file.Close()

	var (
		cfg            *install.InstallConfiguration
		warnings       []string
		currentURL     string
		currentURLType string
		lineno         int
	)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		switch {
		case strings.HasPrefix(line, "INSTALL="):
			location := strings.SplitN(line, "=", 2)[1]
			if opts.ForceInstallLocation != "" {
				location = opts.ForceInstallLocation
			}
			cfg = install.NewInstallConfiguration(location, opts.ConfigurePath)
			if opts.EpicsArch != "" {
				cfg.EpicsArch = opts.EpicsArch
			}
			if err := validateInstallRoot(location); err != nil {
				if !opts.AllowIllegal {
					return nil, warnings, err
				}
				warnings = append(warnings, err.Error())
			}

		case strings.HasPrefix(line, install.URLTypeGit+"="), strings.HasPrefix(line, install.URLTypeWget+"="):
			parts := strings.SplitN(line, "=", 2)
			currentURLType = parts[0]
			currentURL = parts[1]

		default:
			if cfg == nil {
				return nil, warnings, fmt.Errorf("%w: line %d: module row before INSTALL=", install.ErrManifestMalformed, lineno)
			}
			mod, err := parseModuleRow(line, lineno, currentURL, currentURLType)
			if err != nil {
				return nil, warnings, err
			}
			if err := cfg.AddModule(mod); err != nil {
				if !opts.AllowIllegal {
					return nil, warnings, fmt.Errorf("line %d: %w", lineno, err)
				}
				warnings = append(warnings, fmt.Sprintf("line %d: %v", lineno, err))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, warnings, err
	}
	if cfg == nil {
		return nil, warnings, fmt.Errorf("%w: no INSTALL= line in %s", install.ErrManifestMalformed, manifestPath)
	}

	warnings = append(warnings, loadInjectorFiles(cfg)...)
	warnings = append(warnings, loadMacroFiles(cfg)...)

	log.Debug().
		Int("modules", len(cfg.Modules)).
		Int("injector_files", len(cfg.InjectorFiles)).
		Int("macros", len(cfg.Macros)).
		Str("install", cfg.InstallLocation).
		Msg("manifest parsed")
	return cfg, warnings, nil
}

// validateInstallRoot checks that the install root is usable, creating it
// when absent.
func validateInstallRoot(location string) error {
	info, err := os.Stat(location)
	switch {
	case err == nil && !info.IsDir():
		return fmt.Errorf("%w: %s exists and is not a directory", install.ErrInstallPathCreate, location)
	case err == nil:
		if unix.Access(location, unix.W_OK) != nil {
			return fmt.Errorf("%w: %s", install.ErrInstallPathPermission, location)
		}
		return nil
	case os.IsNotExist(err):
		if mkErr := os.MkdirAll(location, 0o755); mkErr != nil {
			return fmt.Errorf("%w: %s: %v", install.ErrInstallPathCreate, location, mkErr)
		}
		return nil
	default:
		return err
	}
}

// parseModuleRow splits a whitespace-normalized six-column module row and
// combines it with the running URL directive state.
func parseModuleRow(line string, lineno int, currentURL, currentURLType string) (*install.Module, error) {
	fields := strings.Fields(line)
	if len(fields) < 6 {
		return nil, fmt.Errorf("%w: line %d has %d fields, want 6: %q",
			install.ErrManifestMalformed, lineno, len(fields), line)
	}
	return &install.Module{
		Name:       fields[0],
		Version:    fields[1],
		RelPath:    fields[2],
		Repository: fields[3],
		Clone:      install.ParseFlag(fields[4]),
		Build:      install.ParseFlag(fields[5]),
		URL:        currentURL,
		URLType:    currentURLType,
	}, nil
}

// loadInjectorFiles attaches every fragment under configure/injectionFiles.
func loadInjectorFiles(cfg *install.InstallConfiguration) []string {
	dir := filepath.Join(cfg.ConfigurePath, injectorDirName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Debug().Str("dir", dir).Msg("no injector files")
		return nil
	}

	var warnings []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		contents, rawTarget, err := parseInjectorFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s/%s: %v", injectorDirName, entry.Name(), err))
			continue
		}
		if err := cfg.AddInjectorFile(entry.Name(), contents, rawTarget); err != nil {
			warnings = append(warnings, fmt.Sprintf("%s/%s: %v", injectorDirName, entry.Name(), err))
		}
	}
	return warnings
}

// parseInjectorFile scans one fragment: a __TARGET_LOC__= line names the
// target, every other non-comment non-blank line is injectable content.
func parseInjectorFile(path string) (contents, rawTarget string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return "", "", err
	}
	defer file.Close()

	var sb strings.Builder
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.HasPrefix(trimmed, "__TARGET_LOC__=") {
			rawTarget = strings.SplitN(trimmed, "=", 2)[1]
			continue
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String(), rawTarget, scanner.Err()
}

// loadMacroFiles attaches every key=value file under configure/macroFiles.
func loadMacroFiles(cfg *install.InstallConfiguration) []string {
	dir := filepath.Join(cfg.ConfigurePath, macroDirName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Debug().Str("dir", dir).Msg("no macro files")
		return nil
	}

	var warnings []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		pairs, skipped, err := parseMacroFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s/%s: %v", macroDirName, entry.Name(), err))
			continue
		}
		if skipped > 0 {
			warnings = append(warnings, fmt.Sprintf("%s/%s: skipped %d malformed tokens", macroDirName, entry.Name(), skipped))
		}
		cfg.AddMacros(pairs)
	}
	return warnings
}

// parseMacroFile splits a macro file into whitespace-separated key=value
// tokens. Comment lines are ignored wholesale; tokens without = on the
// remaining lines are counted as skipped instead of dropped silently.
func parseMacroFile(path string) ([]install.MacroPair, int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, err
	}

	var (
		pairs   []install.MacroPair
		skipped int
	)
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, token := range strings.Fields(line) {
			if strings.HasPrefix(token, "#") {
				continue
			}
			key, value, ok := strings.Cut(token, "=")
			if !ok || key == "" {
				skipped++
				continue
			}
			pairs = append(pairs, install.MacroPair{Key: key, Value: value})
		}
	}
	return pairs, skipped, nil
}
