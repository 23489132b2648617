package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/vamazon/internal/flagx"
)

// parseFlags reads the notifier flags:
//
//	-b string   Kafka brokers, comma separated
//	-t string   Kafka topic
//	-g string   consumer group id
//	-k string   Resend API key
//	-f string   sender address
//	-l string   log level
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-b", "-t", "-g", "-k", "-f", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.KafkaBrokers, "b", config.KafkaBrokers, "kafka brokers")
	fs.StringVar(&config.KafkaTopic, "t", config.KafkaTopic, "kafka topic")
	fs.StringVar(&config.KafkaGroupID, "g", config.KafkaGroupID, "kafka consumer group")
	fs.StringVar(&config.ResendAPIKey, "k", config.ResendAPIKey, "resend api key")
	fs.StringVar(&config.EmailFrom, "f", config.EmailFrom, "sender email")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
