package domain

import "runtime"

// HostSystemName returns the cmake-style host OS name, as reported through
// CMAKE_HOST_SYSTEM_NAME: Windows, Darwin or Linux.
func HostSystemName() string {
	switch runtime.GOOS {
	case "windows":
		return "Windows"
	case "darwin":
		return "Darwin"
	default:
		return "Linux"
	}
}
