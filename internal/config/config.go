package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelvins/geocoder"
	"gopkg.in/yaml.v3"
)

// AppConfig holds every setting the process needs. It is built once at
// startup and passed down explicitly; the core never reads configuration.
type AppConfig struct {
	MetOfficeAPIKey string
	TTSAPIKey       string

	// Forecast location. If Latitude/Longitude are unset, City/Country are
	// resolved through the Google geocoding API at startup.
	Latitude  float64
	Longitude float64
	City      string
	Country   string

	// Place is the locality name spoken in the bulletin.
	Place string

	// Timesteps selects the feed resolution: "hourly" or "three-hourly".
	Timesteps string

	// OutputFile is where the synthesized audio artifact is written.
	OutputFile string

	// FetchInterval controls how often the bulletin is regenerated.
	FetchInterval time.Duration

	// In-memory store retention.
	StoreMaxHistory int           // max number of bulletins (0 = unlimited)
	StoreMaxAge     time.Duration // max age of bulletins (0 = unlimited)

	HTTPTimeout time.Duration
	Port        string
}

// fileConfig mirrors the optional config.yaml settings file.
type fileConfig struct {
	MetOfficeAPIKey string  `yaml:"metoffice_api_key"`
	TTSAPIKey       string  `yaml:"google_tts_api_key"`
	GeocodingAPIKey string  `yaml:"google_geocoding_api_key"`
	Lat             float64 `yaml:"lat"`
	Long            float64 `yaml:"long"`
	City            string  `yaml:"city"`
	Country         string  `yaml:"country"`
	Place           string  `yaml:"place"`
	Timesteps       string  `yaml:"timesteps"`
	OutputFile      string  `yaml:"output_file"`
}

// Load reads configuration from config.yaml (if present) and the
// environment, with environment values taking precedence.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	fc, err := loadFile(getenvDefault("CONFIG_FILE", "config.yaml"))
	if err != nil {
		return nil, err
	}

	cfg := &AppConfig{}

	cfg.MetOfficeAPIKey = getenvDefault("METOFFICE_API_KEY", fc.MetOfficeAPIKey)
	cfg.TTSAPIKey = getenvDefault("GOOGLE_TTS_API_KEY", fc.TTSAPIKey)

	cfg.City = getenvDefault("BULLETIN_CITY", fc.City)
	cfg.Country = getenvDefault("BULLETIN_COUNTRY", fc.Country)
	cfg.Place = getenvDefault("BULLETIN_PLACE", fc.Place)
	if cfg.Place == "" {
		return nil, fmt.Errorf("bulletin place name is required")
	}

	cfg.Latitude = getenvFloat("BULLETIN_LAT", fc.Lat)
	cfg.Longitude = getenvFloat("BULLETIN_LONG", fc.Long)
	if cfg.Latitude == 0 && cfg.Longitude == 0 {
		if cfg.City == "" {
			return nil, fmt.Errorf("either lat/long or a city to geocode is required")
		}
		lat, lon, err := resolveCoordinates(cfg.City, cfg.Country, getenvDefault("GOOGLE_GEOCODING_API_KEY", fc.GeocodingAPIKey))
		if err != nil {
			return nil, fmt.Errorf("geocode %s: %w", cfg.City, err)
		}
		cfg.Latitude, cfg.Longitude = lat, lon
	}

	cfg.Timesteps = getenvDefault("FORECAST_TIMESTEPS", fc.Timesteps)
	if cfg.Timesteps == "" {
		cfg.Timesteps = "three-hourly"
	}
	if cfg.Timesteps != "hourly" && cfg.Timesteps != "three-hourly" {
		return nil, fmt.Errorf("invalid FORECAST_TIMESTEPS: %q", cfg.Timesteps)
	}

	cfg.OutputFile = getenvDefault("BULLETIN_OUTPUT_FILE", fc.OutputFile)

	// Regeneration interval: default 30 minutes.
	intervalStr := getenvDefault("FETCH_INTERVAL", "30m")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid FETCH_INTERVAL: %w", err)
	}
	cfg.FetchInterval = interval

	// Store retention.
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 48) // roughly 24h at 30-minute intervals

	maxAgeStr := getenvDefault("STORE_MAX_AGE", "24h")
	maxAge, err := time.ParseDuration(maxAgeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid STORE_MAX_AGE: %w", err)
	}
	cfg.StoreMaxAge = maxAge

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func loadFile(path string) (fileConfig, error) {
	var fc fileConfig

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("INFO: no settings file at %s; using environment only", path)
			return fc, nil
		}
		return fc, err
	}

	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse %s: %w", path, err)
	}
	return fc, nil
}

// resolveCoordinates looks up lat/long for a city through the Google
// geocoding API.
func resolveCoordinates(city, country, apiKey string) (float64, float64, error) {
	if apiKey == "" {
		return 0, 0, fmt.Errorf("geocoding api key is not configured")
	}
	geocoder.ApiKey = apiKey

	location, err := geocoder.Geocoding(geocoder.Address{
		City:    city,
		Country: country,
	})
	if err != nil {
		return 0, 0, err
	}
	return location.Latitude, location.Longitude, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return def
}
