package fiat

type FiatConfig struct {
	PaystackKey            string `mapstructure:"PAYSTACK_KEY"`
	PaystackBaseUrl        string `mapstructure:"PAYSTACK_BASE_URL"`
	FlutterwaveKey         string `mapstructure:"FLUTTERWAVE_KEY"`
	FlutterwaveBaseUrl     string `mapstructure:"FLUTTERWAVE_BASE_URL"`
	FlutterwaveWebhookHash string `mapstructure:"FLUTTERWAVE_WEBHOOK_HASH"`
	CollectPollSeconds     int    `mapstructure:"COLLECT_POLL_SECONDS"`
	CollectWindowSeconds   int    `mapstructure:"COLLECT_WINDOW_SECONDS"`
}

func (c *FiatConfig) pollSeconds() int {
	if c.CollectPollSeconds <= 0 {
		return 5
	}
	return c.CollectPollSeconds
}

func (c *FiatConfig) windowSeconds() int {
	if c.CollectWindowSeconds <= 0 {
		return 600
	}
	return c.CollectWindowSeconds
}
