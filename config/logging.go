package config

import "github.com/kilianp07/evrange/core/decisionlog"

// LoggingConfig defines settings for the decision audit log storage and
// rotation. It is decoded from the "logging" section.
type LoggingConfig = decisionlog.Config
