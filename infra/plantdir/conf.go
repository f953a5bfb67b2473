package plantdir

import "fmt"

// Conf lists candidate locations of the plant directory file. The first
// existing path wins, so deployments can layer a site-local list over a
// bundled default.
type Conf struct {
	Paths []string `json:"paths"`
}

// SetDefaults falls back to a list in the working directory.
func (c *Conf) SetDefaults() {
	if len(c.Paths) == 0 {
		c.Paths = []string{"pp_list.json"}
	}
}

// Validate checks that at least one candidate path is configured.
func (c Conf) Validate() error {
	if len(c.Paths) == 0 {
		return fmt.Errorf("at least one plant list path is required")
	}
	return nil
}
