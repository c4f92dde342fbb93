// Package binary resolves the external tools the integration layer shells out to.
package binary

import (
	"fmt"
	"os/exec"

	"github.com/farcloser/primordium/fault"
)

// Resolve returns the absolute path of a required external tool, or an
// ErrMissingRequirements error when it is not on the PATH.
func Resolve(binName string) (string, error) {
	path, err := exec.LookPath(binName)
	if err != nil {
		return "", fmt.Errorf("%w: %s not found in PATH", fault.ErrMissingRequirements, binName)
	}

	return path, nil
}
