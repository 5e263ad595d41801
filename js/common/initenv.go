package common

import (
	"net/url"

	"github.com/sirupsen/logrus"

	"go.k6.io/typedview/lib"
	"go.k6.io/typedview/lib/fsext"
)

// InitEnvironment contains properties that can be accessed by Go code executed
// while a script is being loaded.
type InitEnvironment struct {
	Logger      logrus.FieldLogger
	FileSystems map[string]fsext.Fs
	CWD         *url.URL
	Options     lib.Options
}

// GetAbsFilePath resolves filename against the CWD of the environment.
func (ie *InitEnvironment) GetAbsFilePath(filename string) string {
	return fsext.Abs(ie.CWD.Path, filename)
}
