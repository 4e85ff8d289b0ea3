// Package logging builds the structured logger every component logs
// through outside the hot per-operation path.
package logging

import "go.uber.org/zap"

// New builds a production logger, or a development logger (human-readable,
// debug-level) when env == "development".
func New(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
