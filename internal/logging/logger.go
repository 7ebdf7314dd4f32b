// Package logging builds the process-wide zap logger.
package logging

import "go.uber.org/zap"

// New returns a production JSON logger, or a development console logger
// when env is "development" or "dev".
func New(env string) (*zap.SugaredLogger, error) {
	var base *zap.Logger
	var err error
	switch env {
	case "development", "dev":
		base, err = zap.NewDevelopment()
	default:
		base, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return base.Sugar(), nil
}
