package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/vamazon/internal/flagx"
)

type JsonConfig struct {
	KafkaBrokers  string `json:"kafka_brokers"`
	KafkaTopic    string `json:"kafka_topic"`
	KafkaGroupID  string `json:"kafka_group_id"`
	ResendAPIKey  string `json:"resend_api_key"`
	EmailFrom     string `json:"email_from"`
	EmailFromName string `json:"email_from_name"`
	OrdersURL     string `json:"orders_url"`
	LogLevel      string `json:"log_level"`
}

// parseJson overlays non-empty values from the file named by -c/-config.
// It panics on unreadable or malformed files.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.KafkaBrokers, c.KafkaBrokers)
	setString(&config.KafkaTopic, c.KafkaTopic)
	setString(&config.KafkaGroupID, c.KafkaGroupID)
	setString(&config.ResendAPIKey, c.ResendAPIKey)
	setString(&config.EmailFrom, c.EmailFrom)
	setString(&config.EmailFromName, c.EmailFromName)
	setString(&config.OrdersURL, c.OrdersURL)
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
