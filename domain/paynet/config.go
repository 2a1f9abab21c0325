package paynet

type GatewayMode string

const (
	ModeSandbox    GatewayMode = "sandbox"
	ModeProduction GatewayMode = "production"
)

// QueryConfig carries the merchant credentials and endpoint selection for one
// gateway query. RedirectUrl and CallbackUrl stay empty unless the supplied
// url passed validation, the gateway then falls back to its own defaults.
type QueryConfig struct {
	EndpointId           string
	Login                string
	SigningKey           string
	GatewayMode          GatewayMode
	GatewayUrlSandbox    string
	GatewayUrlProduction string
	RedirectUrl          string
	CallbackUrl          string
}

// GatewayUrl resolves the base url for the configured mode. Anything other
// than production selects the sandbox.
func (config QueryConfig) GatewayUrl() string {
	if config.GatewayMode == ModeProduction {
		return config.GatewayUrlProduction
	}
	return config.GatewayUrlSandbox
}
