package auth

import "fmt"

// DefaultCasURL is the EPIAS CAS ticket endpoint.
const DefaultCasURL = "https://giris.epias.com.tr/cas/v1/tickets"

// Conf holds the transparency platform credentials.
type Conf struct {
	Username string `json:"username"`
	Password string `json:"password"`
	CasURL   string `json:"cas_url"`
	// CacheFile persists the ticket between runs. Empty disables the
	// on-disk cache.
	CacheFile string `json:"cache_file"`
}

// SetDefaults applies sane defaults.
func (c *Conf) SetDefaults() {
	if c.CasURL == "" {
		c.CasURL = DefaultCasURL
	}
}

// Validate checks mandatory fields.
func (c Conf) Validate() error {
	if c.Username == "" {
		return fmt.Errorf("username is required")
	}
	if c.Password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}
