package sheet

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Config identifies the spreadsheet and the credentials used to reach it.
type Config struct {
	// CredentialFile is the path of a service account JSON key.
	CredentialFile string
	// ApplicationName is sent as the user agent.
	ApplicationName string
	// SpreadsheetID is the long identifier in the spreadsheet URL.
	SpreadsheetID string
}

// Validate reports every missing or malformed setting at once.
func (c Config) Validate() error {
	var err error

	if strings.TrimSpace(c.CredentialFile) == "" {
		err = multierr.Append(err, errors.New("credential file has not been set"))
	} else if i := strings.LastIndex(c.CredentialFile, "."); i < 0 || c.CredentialFile[i+1:] != "json" {
		err = multierr.Append(err, errors.Errorf("credential file %q is not a JSON file", c.CredentialFile))
	}

	if strings.TrimSpace(c.ApplicationName) == "" {
		err = multierr.Append(err, errors.New("application name has not been set"))
	}

	if strings.TrimSpace(c.SpreadsheetID) == "" {
		err = multierr.Append(err, errors.New("spreadsheet id has not been set"))
	}

	if err != nil {
		return multierr.Append(ErrInvalidConfig, err)
	}
	return nil
}
