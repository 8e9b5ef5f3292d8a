package httpserver

import (
	"regexp"
	"runtime"

	"golang.org/x/mod/semver"
)

// minTLS13Runtime is the first Go release whose crypto/tls enables TLS 1.3
const minTLS13Runtime = "v1.13.0"

var goVersionRE = regexp.MustCompile(`go(\d+)\.(\d+)(?:\.(\d+))?`)

// SupportsTLS13 reports whether the running Go runtime can negotiate TLS 1.3
func SupportsTLS13() bool {
	return runtimeSupportsTLS13(runtime.Version())
}

func runtimeSupportsTLS13(version string) bool {
	m := goVersionRE.FindStringSubmatch(version)
	if m == nil {
		return false
	}
	patch := m[3]
	if patch == "" {
		patch = "0"
	}
	v := "v" + m[1] + "." + m[2] + "." + patch
	if !semver.IsValid(v) {
		return false
	}
	return semver.Compare(v, minTLS13Runtime) >= 0
}

// safeProbe runs a capability probe, mapping panics to false
func safeProbe(probe func() bool) (ok bool) {
	if probe == nil {
		return false
	}
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	return probe()
}
