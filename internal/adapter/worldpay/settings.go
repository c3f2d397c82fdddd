package worldpay

import (
	"fmt"
	"sort"

	"github.com/yourorg/worldpay-gateway/internal/adapter"
)

// Settings is the merchant configuration for one Business Gateway installation.
// It is loaded once and never mutated by the adapter.
type Settings struct {
	ContinueURL string `yaml:"continue_url" env:"WORLDPAY_CONTINUE_URL"`
	CancelURL   string `yaml:"cancel_url" env:"WORLDPAY_CANCEL_URL"`
	ErrorURL    string `yaml:"error_url" env:"WORLDPAY_ERROR_URL"`

	BillingFirstNamePropertyAlias      string `yaml:"billing_first_name_property_alias" env:"WORLDPAY_BILLING_FIRST_NAME_ALIAS"`
	BillingLastNamePropertyAlias       string `yaml:"billing_last_name_property_alias" env:"WORLDPAY_BILLING_LAST_NAME_ALIAS"`
	BillingAddressLine1PropertyAlias   string `yaml:"billing_address_line1_property_alias" env:"WORLDPAY_BILLING_ADDRESS_LINE1_ALIAS"`
	BillingAddressCityPropertyAlias    string `yaml:"billing_address_city_property_alias" env:"WORLDPAY_BILLING_ADDRESS_CITY_ALIAS"`
	BillingAddressZipCodePropertyAlias string `yaml:"billing_address_zip_code_property_alias" env:"WORLDPAY_BILLING_ADDRESS_ZIP_CODE_ALIAS"`

	InstallID        string `yaml:"install_id" env:"WORLDPAY_INSTALL_ID"`
	MD5Secret        string `yaml:"md5_secret" env:"WORLDPAY_MD5_SECRET"`
	ResponsePassword string `yaml:"response_password" env:"WORLDPAY_RESPONSE_PASSWORD"`

	// Capture selects full authorization (true) over pre-authorization.
	Capture  bool `yaml:"capture" env:"WORLDPAY_CAPTURE"`
	TestMode bool `yaml:"test_mode" env:"WORLDPAY_TEST_MODE"`

	VerboseLogging bool `yaml:"verbose_logging" env:"WORLDPAY_VERBOSE_LOGGING"`
}

// Validate checks the settings needed to build a purchase form.
func (s Settings) Validate() error {
	if s.InstallID == "" {
		return fmt.Errorf("worldpay: install id is not configured: %w", adapter.ErrConfiguration)
	}
	return nil
}

// SettingDescriptor describes one setting for a host settings screen.
type SettingDescriptor struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
	IsAdvanced  bool   `json:"is_advanced"`
}

var settingsSchema = []SettingDescriptor{
	{Key: "continue_url", Name: "Continue Url", Description: "The Continue URL", SortOrder: 1000},
	{Key: "cancel_url", Name: "Cancel Url", Description: "The Cancel URL", SortOrder: 2000},
	{Key: "error_url", Name: "Error Url", Description: "The Error URL", SortOrder: 3000},
	{Key: "billing_first_name_property_alias", Name: "Billing Property First Name", Description: "The order property alias containing the first name of the customer", SortOrder: 4000},
	{Key: "billing_last_name_property_alias", Name: "Billing Property Last Name", Description: "The order property alias containing the last name of the customer", SortOrder: 5000},
	{Key: "billing_address_line1_property_alias", Name: "Billing Address (Line 1) Property Alias", Description: "The order property alias containing line 1 of the billing address", SortOrder: 6000},
	{Key: "billing_address_city_property_alias", Name: "Billing Address City Property Alias", Description: "The order property alias containing the city of the billing address", SortOrder: 7000},
	{Key: "billing_address_zip_code_property_alias", Name: "Billing Address ZipCode Property Alias", Description: "The order property alias containing the zip code of the billing address", SortOrder: 8000},
	{Key: "install_id", Name: "Install ID", Description: "The installation ID", SortOrder: 9000},
	{Key: "capture", Name: "Capture", Description: "Flag indicating whether to immediately capture the payment, or whether to just authorize the payment for later (manual) capture.", SortOrder: 1400},
	{Key: "md5_secret", Name: "MD5 Secret", Description: "The Worldpay MD5 secret to use when creating MD5 hashes", SortOrder: 13000},
	{Key: "response_password", Name: "Response Password", Description: "The Worldpay payment response password used to validate payment responses", SortOrder: 14000},
	{Key: "test_mode", Name: "Test Mode", Description: "Set whether to process payments in test mode.", SortOrder: 15000},
	{Key: "verbose_logging", Name: "Verbose Logging", Description: "Enable verbose logging", SortOrder: 16000, IsAdvanced: true},
}

// SettingsSchema returns the setting descriptors ordered by SortOrder.
func SettingsSchema() []SettingDescriptor {
	out := make([]SettingDescriptor, len(settingsSchema))
	copy(out, settingsSchema)
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out
}
