package model

// AzureOpenAIConfig carries the connection settings for the Azure OpenAI
// chat-completions deployment used to generate addresses.
type AzureOpenAIConfig struct {
	Endpoint       string `json:"endpoint"`
	APIKey         string `json:"apiKey"`
	APIVersion     string `json:"apiVersion"`
	DeploymentName string `json:"deploymentName"`
}

// Configured reports whether the settings are complete enough to call the
// service.
func (c AzureOpenAIConfig) Configured() bool {
	return c.Endpoint != "" && c.APIKey != "" && c.DeploymentName != ""
}

// MaskingOptions is the configuration surface of one masking run.
type MaskingOptions struct {
	// PreserveFormat keeps punctuation/length templates of the original
	// values (phone digit groups, postal formats, name casing).
	PreserveFormat bool `json:"preserveFormat"`

	// UseCountryDropdown restricts country values to SelectedCountries and
	// remaps the observed country proportions onto that subset.
	UseCountryDropdown bool     `json:"useCountryDropdown"`
	SelectedCountries  []string `json:"selectedCountries,omitempty"`

	// UseAzureOpenAI enables the external address generation subsystem.
	UseAzureOpenAI    bool              `json:"useAzureOpenAI"`
	AzureOpenAIConfig AzureOpenAIConfig `json:"azureOpenAIConfig,omitempty"`

	BatchSize  int `json:"batchSize,omitempty"`
	MaxRetries int `json:"maxRetries,omitempty"`

	// Pool policy. Datasets with at least LargeDatasetThreshold rows get at
	// most AddressPoolCap fresh addresses per country; rows beyond the pool
	// are served by reuse and incremental mutation. Both default when zero.
	LargeDatasetThreshold int `json:"largeDatasetThreshold,omitempty"`
	AddressPoolCap        int `json:"addressPoolCap,omitempty"`
}

// Defaults used when the corresponding option is zero.
const (
	DefaultBatchSize             = 25
	DefaultMaxRetries            = 3
	DefaultLargeDatasetThreshold = 100
	DefaultAddressPoolCap        = 100
)

// Normalized returns a copy with zero-valued policy fields replaced by
// defaults.
func (o MaskingOptions) Normalized() MaskingOptions {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = DefaultMaxRetries
	}
	if o.LargeDatasetThreshold <= 0 {
		o.LargeDatasetThreshold = DefaultLargeDatasetThreshold
	}
	if o.AddressPoolCap <= 0 {
		o.AddressPoolCap = DefaultAddressPoolCap
	}
	return o
}
