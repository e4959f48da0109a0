package backend

import (
	"fmt"

	"financeiro/internal/config"
	gsheet "financeiro/internal/sheets/google"
)

// FromAppConfig converts the application config to mirror config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	t := Type(appConfig.MirrorBackend)
	if !t.IsValid() {
		return Config{}, fmt.Errorf("invalid mirror backend in config: %s", appConfig.MirrorBackend)
	}

	return Config{
		Type:          t,
		SpreadsheetID: appConfig.GoogleSpreadsheetID,
		Credentials: gsheet.Credentials{
			JSON:            appConfig.GoogleServiceAccountJSON,
			File:            appConfig.GoogleServiceAccountFile,
			ApplicationFile: appConfig.GoogleApplicationCredFile,
		},
		Timeout: appConfig.MirrorTimeout,
	}, nil
}

// Validate validates the mirror configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid mirror backend: %s", c.Type)
	}
	if c.Type == SheetsMirror && c.SpreadsheetID == "" {
		return fmt.Errorf("spreadsheet ID is required for sheets mirror")
	}
	return nil
}
