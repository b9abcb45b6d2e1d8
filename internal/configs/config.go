package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/bchiyangwa9/london-property-analyzer/internal/core/domain"

	"github.com/joho/godotenv"
)

type RabbitMQConfig struct {
	URL string
}

type DBconfig struct {
	URL string
}

type RESTconfig struct {
	PORT           string
	AllowedOrigins []string
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// LocationLookupConfig selects the enrichment data source.
// Mode "simulator" answers from built-in datasets; mode "http" talks to
// a location API at BaseURL.
type LocationLookupConfig struct {
	Mode           string
	BaseURL        string
	TimeoutSeconds int
}

type PipelineConfig struct {
	MaxWorkers        int
	ConsumerBatchSize int
	BatchTimeoutSec   int
}

// AppConfig holds all application configuration.
type AppConfig struct {
	AppName        string
	Database       DBconfig
	RabbitMQ       RabbitMQConfig
	Rest           RESTconfig
	FluentBit      FluentBitConfig
	StdoutLogger   StdoutLogConfig
	LocationLookup LocationLookupConfig
	Pipeline       PipelineConfig
	Criteria       domain.ScoringCriteria
}

// LoadConfig loads configuration from the environment, optionally seeded
// from a .env file. A missing .env file is not an error; the variables
// may come from the real environment.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: Could not load .env file (path: %v): %v.\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "property-analyzer")

	cfg.Database.URL = os.Getenv("DATABASE_URL")
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
	if cfg.RabbitMQ.URL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL environment variable is required")
	}

	cfg.Rest.PORT = getEnvAsString("PORT", "8080")
	cfg.Rest.AllowedOrigins = []string{getEnvAsString("CORS_ALLOWED_ORIGIN", "http://localhost:5173")}

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}

		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	cfg.LocationLookup.Mode = getEnvAsString("LOCATION_LOOKUP_MODE", "simulator")
	switch cfg.LocationLookup.Mode {
	case "simulator":
	case "http":
		cfg.LocationLookup.BaseURL = os.Getenv("LOCATION_API_BASE_URL")
		if cfg.LocationLookup.BaseURL == "" {
			return nil, fmt.Errorf("LOCATION_API_BASE_URL is required when LOCATION_LOOKUP_MODE=http")
		}
	default:
		return nil, fmt.Errorf("LOCATION_LOOKUP_MODE must be 'simulator' or 'http', got %q", cfg.LocationLookup.Mode)
	}
	cfg.LocationLookup.TimeoutSeconds = getEnvAsInt("LOCATION_LOOKUP_TIMEOUT_SECONDS", 5)

	cfg.Pipeline.MaxWorkers = getEnvAsInt("PIPELINE_MAX_WORKERS", 4)
	cfg.Pipeline.ConsumerBatchSize = getEnvAsInt("CONSUMER_BATCH_SIZE", 50)
	cfg.Pipeline.BatchTimeoutSec = getEnvAsInt("CONSUMER_BATCH_TIMEOUT_SECONDS", 10)

	cfg.Criteria = loadCriteria()
	if err := cfg.Criteria.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring criteria: %w", err)
	}

	return cfg, nil
}

// loadCriteria builds the search profile from the environment on top of
// the shipped defaults, so a partial override stays valid.
func loadCriteria() domain.ScoringCriteria {
	c := domain.DefaultCriteria()

	c.ReferencePostcode = getEnvAsString("CRITERIA_REFERENCE_POSTCODE", c.ReferencePostcode)
	c.BudgetMin = getEnvAsInt64("CRITERIA_BUDGET_MIN", c.BudgetMin)
	c.BudgetMax = getEnvAsInt64("CRITERIA_BUDGET_MAX", c.BudgetMax)
	c.PerfectPriceMargin = getEnvAsInt64("CRITERIA_PERFECT_PRICE_MARGIN", c.PerfectPriceMargin)
	c.GoodPriceMargin = getEnvAsInt64("CRITERIA_GOOD_PRICE_MARGIN", c.GoodPriceMargin)
	c.OverBudgetMargin = getEnvAsInt64("CRITERIA_OVER_BUDGET_MARGIN", c.OverBudgetMargin)
	c.PlausiblePriceCeiling = getEnvAsInt64("CRITERIA_PLAUSIBLE_PRICE_CEILING", c.PlausiblePriceCeiling)
	c.MinBedrooms = getEnvAsInt("CRITERIA_MIN_BEDROOMS", c.MinBedrooms)
	c.BedroomRule = domain.BedroomRule(getEnvAsString("CRITERIA_BEDROOM_RULE", string(c.BedroomRule)))
	c.MaxCommuteMinutes = getEnvAsFloat("CRITERIA_MAX_COMMUTE_MINUTES", c.MaxCommuteMinutes)

	c.Weights.Price = getEnvAsFloat("CRITERIA_WEIGHT_PRICE", c.Weights.Price)
	c.Weights.Commute = getEnvAsFloat("CRITERIA_WEIGHT_COMMUTE", c.Weights.Commute)
	c.Weights.PropertyType = getEnvAsFloat("CRITERIA_WEIGHT_PROPERTY_TYPE", c.Weights.PropertyType)
	c.Weights.Bedrooms = getEnvAsFloat("CRITERIA_WEIGHT_BEDROOMS", c.Weights.Bedrooms)
	c.Weights.OutdoorSpace = getEnvAsFloat("CRITERIA_WEIGHT_OUTDOOR_SPACE", c.Weights.OutdoorSpace)
	c.Weights.Schools = getEnvAsFloat("CRITERIA_WEIGHT_SCHOOLS", c.Weights.Schools)
	c.Weights.GrammarBonus = getEnvAsFloat("CRITERIA_WEIGHT_GRAMMAR_BONUS", c.Weights.GrammarBonus)

	return c
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int64: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueFloat, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as float: %v. Using default value: %f\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueFloat
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}
