package config

import (
	"fmt"
	"strings"
)

// Validate reports every required setting that is missing.
func Validate(c Config) error {
	required := []struct {
		name  string
		value string
	}{
		{"wskey", c.GetWSKey()},
		{"secret", c.GetSecret()},
		{"scope", c.GetScope()},
		{"oauth_server_token", c.GetTokenURL()},
		{"discovery_api_url", c.GetDiscoveryURL()},
		{"institution_id", c.GetInstitutionID()},
		{"registry_id", c.GetRegistryID()},
		{"ncip_api_url", c.GetNCIPURL()},
	}

	var missing []string
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			missing = append(missing, r.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("[config.Validate] missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}
