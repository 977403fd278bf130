package rally

import "github.com/sirupsen/logrus"

// Logger is the logging interface used throughout the rally engine. It is
// satisfied by *logrus.Logger and *logrus.Entry.
type Logger = logrus.FieldLogger
