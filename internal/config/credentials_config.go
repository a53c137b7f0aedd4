package config

// CredentialsConfig holds the WSKey client credentials used for every upstream call.
type CredentialsConfig interface {
	GetWSKey() string
	GetSecret() string
	GetScope() string
	GetTokenURL() string
}

type Credentials struct {
	file *FileConfig
}

var _ CredentialsConfig = Credentials{}

func (c Credentials) GetWSKey() string {
	return GetEnv("OCLC_WSKEY", c.file.WSKey)
}

func (c Credentials) GetSecret() string {
	return GetEnv("OCLC_SECRET", c.file.Secret)
}

func (c Credentials) GetScope() string {
	return GetEnv("OCLC_SCOPE", c.file.Scope)
}

func (c Credentials) GetTokenURL() string {
	return GetEnv("OCLC_TOKEN_URL", c.file.OAuthServerToken)
}
