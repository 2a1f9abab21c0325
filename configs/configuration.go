package configs

import (
	"flag"
	"os"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"

	applog "github.com/ecomia/paynet-sale-service/infrastructure/logger"
)

type Config struct {
	App struct {
		ServiceMode string `env:"PAYNET_SERVICE_MODE"`
		StoreName   string `env:"PAYNET_STORE_NAME"`

		// Base url the gateway redirects the customer back to after the
		// off-site payment step, order increment id gets appended.
		CallbackUrlBase string `env:"PAYNET_CALLBACK_URL_BASE"`
		RedirectUrlBase string `env:"PAYNET_REDIRECT_URL_BASE"`
	}

	HTTPServer struct {
		Address string `env:"PAYNET_SERVER_ADDRESS"`
		Port    int    `env:"PAYNET_SERVER_PORT"`
	}

	PaynetGateway struct {
		EndpointId    string `env:"PAYNET_GATEWAY_ENDPOINT_ID"`
		MerchantLogin string `env:"PAYNET_GATEWAY_MERCHANT_LOGIN"`
		MerchantKey   string `env:"PAYNET_GATEWAY_MERCHANT_KEY"`
		GatewayMode   string `env:"PAYNET_GATEWAY_MODE"`
		SandboxUrl    string `env:"PAYNET_GATEWAY_SANDBOX_URL"`
		ProductionUrl string `env:"PAYNET_GATEWAY_PRODUCTION_URL"`
		Timeout       int    `env:"PAYNET_GATEWAY_TIMEOUT"`
	}

	Secret struct {
		CardEncryptionKey string `env:"PAYNET_CARD_ENCRYPTION_KEY"`
	}

	Notification struct {
		SmtpHost    string `env:"PAYNET_NOTIFY_SMTP_HOST"`
		SmtpPort    int    `env:"PAYNET_NOTIFY_SMTP_PORT"`
		SmtpUser    string `env:"PAYNET_NOTIFY_SMTP_USER"`
		SmtpPass    string `env:"PAYNET_NOTIFY_SMTP_PASS"`
		FromAddress string `env:"PAYNET_NOTIFY_FROM_ADDRESS"`
		MockEnabled bool   `env:"PAYNET_NOTIFY_MOCK_ENABLED"`
	}

	Scheduler struct {
		Enabled           bool `env:"PAYNET_SCHEDULER_ENABLED"`
		IntervalSeconds   int  `env:"PAYNET_SCHEDULER_INTERVAL"`
		WorkerTimeout     int  `env:"PAYNET_SCHEDULER_WORKER_TIMEOUT"`
		PendingOlderThan  int  `env:"PAYNET_SCHEDULER_PENDING_OLDER_THAN"`
		WorkerPoolSize    int  `env:"PAYNET_SCHEDULER_WORKER_POOL_SIZE"`
		PendingBatchLimit int  `env:"PAYNET_SCHEDULER_PENDING_BATCH_LIMIT"`
	}

	Mongo struct {
		User              string `env:"PAYNET_MONGO_USER"`
		Pass              string `env:"PAYNET_MONGO_PASS"`
		Host              string `env:"PAYNET_MONGO_HOST"`
		Port              int    `env:"PAYNET_MONGO_PORT"`
		Database          string `env:"PAYNET_MONGO_DATABASE"`
		Collection        string `env:"PAYNET_MONGO_COLLECTION"`
		ConnectionTimeout int    `env:"PAYNET_MONGO_CONN_TIMEOUT"`
		ReadTimeout       int    `env:"PAYNET_MONGO_READ_TIMEOUT"`
		WriteTimeout      int    `env:"PAYNET_MONGO_WRITE_TIMEOUT"`
		MaxConnIdleTime   int    `env:"PAYNET_MONGO_MAX_CONN_IDLE_TIME"`
		MaxPoolSize       int    `env:"PAYNET_MONGO_MAX_POOL_SIZE"`
		MinPoolSize       int    `env:"PAYNET_MONGO_MIN_POOL_SIZE"`
	}
}

func LoadConfig(path string) (*Config, error) {
	var config = &Config{}
	currentPath, err := os.Getwd()
	if err != nil {
		applog.Err("get current working directory failed, error %s", err)
	}

	if os.Getenv("APP_ENV") == "dev" {
		if path != "" {
			err := godotenv.Load(path)
			if err != nil {
				applog.Err("Error loading testdata .env file, Working Directory: %s  path: %s, error: %s", currentPath, path, err)
			}
		} else if flag.Lookup("test.v") != nil {
			// test mode
			err := godotenv.Load("../testdata/.env")
			if err != nil {
				applog.Err("Error loading testdata .env file, error: %s", err)
			}
		} else {
			err := godotenv.Load("./.env")
			if err != nil {
				applog.Err("Error loading .env file")
			}
		}
	}

	// Get environment variables for Config
	_, err = env.UnmarshalFromEnviron(config)
	if err != nil {
		return nil, err
	}

	return config, nil
}
