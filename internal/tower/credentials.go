package tower

import (
	"fmt"
	"net/http"
)

const (
	cookieTeamGuid      = "remember_team_guid"
	cookieRememberToken = "remember_token"
)

// Credentials are the two long-lived secrets a browser keeps for Tower.
type Credentials struct {
	TeamGuid      string
	RememberToken string
}

func (c Credentials) validate() error {
	if c.TeamGuid == "" {
		return fmt.Errorf("%w: %s is empty", ErrCredentialMissing, cookieTeamGuid)
	}
	if c.RememberToken == "" {
		return fmt.Errorf("%w: %s is empty", ErrCredentialMissing, cookieRememberToken)
	}
	return nil
}

// CredentialsFromCookies picks the remembered team and token out of a browser's
// cookies, later cookies win when a name repeats.
func CredentialsFromCookies(cookies []*http.Cookie) (Credentials, error) {
	creds := Credentials{}
	for _, c := range cookies {
		switch c.Name {
		case cookieTeamGuid:
			creds.TeamGuid = c.Value
		case cookieRememberToken:
			creds.RememberToken = c.Value
		}
	}
	err := creds.validate()
	if err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

func (c Credentials) cookieHeader() string {
	return fmt.Sprintf(
		"%s=%s; %s=%s",
		cookieTeamGuid, c.TeamGuid,
		cookieRememberToken, c.RememberToken,
	)
}
