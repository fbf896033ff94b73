package bridge

import "runtime"

// ABI names for the supported target architectures.
const (
	ABIArm32   = "armeabi-v7a"
	ABIArm64   = "arm64-v8a"
	ABIX86     = "x86"
	ABIX86_64  = "x86_64"
	ABIUnknown = "unknown"
)

// CurrentABIName returns the platform identifier for the running target
// architecture. Pure; no side effects.
func CurrentABIName() string {
	switch runtime.GOARCH {
	case "arm":
		return ABIArm32
	case "arm64":
		return ABIArm64
	case "386":
		return ABIX86
	case "amd64":
		return ABIX86_64
	default:
		return ABIUnknown
	}
}
