package logging

import (
	"github.com/sirupsen/logrus"
)

// Logger is the logging interface shared by all gateway components. Both
// logrus.Logger and logrus.Entry satisfy it, so components can receive either
// the root logger or a derived component logger.
type Logger interface {
	logrus.FieldLogger
}
