// Package config handles configuration for the order notifier.
package config

// Config holds runtime settings for the order notifier.
//
// Fields:
//   - KafkaBrokers / KafkaTopic / KafkaGroupID: order event stream to consume.
//   - ResendAPIKey: API key of the Resend account used to send email.
//   - EmailFrom / EmailFromName: sender of confirmation emails.
//   - OrdersURL: link rendered in the email footer.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	KafkaBrokers  string
	KafkaTopic    string
	KafkaGroupID  string
	ResendAPIKey  string
	EmailFrom     string
	EmailFromName string
	OrdersURL     string
	LogLevel      string
}

func (c *Config) LoadDefaults() {
	c.KafkaBrokers = "localhost:9092"
	c.KafkaTopic = "orders"
	c.KafkaGroupID = "order-email-notifier"
	c.ResendAPIKey = ""
	c.EmailFrom = "noreply@vamazon.local"
	c.EmailFromName = "Vamazon"
	c.OrdersURL = "http://localhost:3000/orders"
	c.LogLevel = "info"
}

// LoadConfig applies defaults, then the optional JSON file, then flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
