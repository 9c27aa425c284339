package install

import "errors"

var (
	// ErrConfigurePathNotFound reports a missing or non-directory
	// configure path, or a missing manifest inside it.
	ErrConfigurePathNotFound = errors.New("configure path not found")

	// ErrManifestMalformed reports a structural manifest problem, such as
	// a module row with too few fields or a row before INSTALL=.
	ErrManifestMalformed = errors.New("manifest malformed")

	// ErrInstallPathPermission reports an existing install root that the
	// current user cannot write to.
	ErrInstallPathPermission = errors.New("install path not writable")

	// ErrInstallPathCreate reports an install root that does not exist
	// and could not be created.
	ErrInstallPathCreate = errors.New("install path could not be created")

	// ErrTargetNotFound reports an injection target file that does not
	// exist. Injection appends to targets, it never creates them.
	ErrTargetNotFound = errors.New("injection target not found")

	// ErrUnresolvedPathMacro reports a $(NAME) reference to a module that
	// has not been added yet, or does not exist at all.
	ErrUnresolvedPathMacro = errors.New("unresolved path macro")

	// ErrDuplicateWellKnown reports a second module claiming one of the
	// well-known names (EPICS_BASE, SUPPORT, AREA_DETECTOR).
	ErrDuplicateWellKnown = errors.New("duplicate well-known module")
)
