package domain

// DevEnvMode controls whether a compiler developer environment is overlaid
// onto the ambient process environment for configure presets.
type DevEnvMode string

const (
	// DevEnvNever skips the toolchain probe entirely.
	DevEnvNever DevEnvMode = "never"
	// DevEnvAuto probes only when a recognized compiler or build backend
	// is requested but cannot be located on PATH.
	DevEnvAuto DevEnvMode = "auto"
	// DevEnvAlways probes unconditionally.
	DevEnvAlways DevEnvMode = "always"
)

// ParseDevEnvMode validates a mode string. The empty string defaults to auto.
func ParseDevEnvMode(s string) (DevEnvMode, error) {
	switch DevEnvMode(s) {
	case "":
		return DevEnvAuto, nil
	case DevEnvNever, DevEnvAuto, DevEnvAlways:
		return DevEnvMode(s), nil
	default:
		return "", With(ErrInvalidDevEnvMode, "mode", s)
	}
}
