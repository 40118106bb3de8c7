//go:build !unix

package privilege

// Sudo is inert on platforms without a privilege-separation concept;
// permission errors surface as ordinary fatal errors there.
type Sudo struct{}

func (Sudo) CanElevate() bool { return false }
func (Sudo) Elevate() error   { return nil }
