package llm

// Options contains model sampling parameters. Nil fields are left to the
// remote service's defaults.
type Options struct {
	Temperature     *float64 `json:"temperature,omitempty" toml:"temperature"`           // Creativity (0.0-2.0)
	TopP            *float64 `json:"top_p,omitempty" toml:"top_p"`                       // Nucleus sampling threshold
	MaxOutputTokens *int     `json:"max_output_tokens,omitempty" toml:"max_output_tokens"` // Max tokens to generate
}

// IsZero reports whether no option is set.
func (o *Options) IsZero() bool {
	return o == nil || (o.Temperature == nil && o.TopP == nil && o.MaxOutputTokens == nil)
}
