package probe

import (
	"io"

	"github.com/sirupsen/logrus"
)

var logger *logrus.Logger

func init() {
	logger = logrus.New()
	logger.SetOutput(io.Discard)
}

// SetLogger installs the logger the finders report through. Candidate
// assignments under test are logged at Debug level (the scan's verbose mode);
// accepted matches and phase summaries at Info.
func SetLogger(l *logrus.Logger) {
	if l != nil {
		logger = l
	}
}
