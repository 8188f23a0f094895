package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	PDFInputPath     string
	TextInputPath    string
	ProcessedCSVPath string
	GeocodedCSVPath  string
	EnrichedCSVPath  string
	XLSXPath         string
	ShapefilePath    string
	ReportPDFPath    string

	ReferenceYear    int
	SourceLabel      string
	SourceURL        string
	AddressSuffix    string
	AmenityTablePath string

	GeocodeEnabled    bool
	GeocoderURL       string
	GeocoderUserAgent string
	GeocodeRateMs     int
	MaxRetries        int

	CampusLat         float64
	CampusLon         float64
	DelPlayaLat       float64
	DelPlayaLon       float64
	WalkMetersPerMin  float64
	NoiseRadiusMeters float64

	HTTPAddr    string
	CORSOrigins []string

	LogLevel      string
	LogJSON       bool
	FluentEnabled bool
	FluentHost    string
	FluentPort    int

	ChromeBin string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		PDFInputPath:     getEnv("PDF_INPUT_PATH", "./data/raw/kamap_availability.pdf"),
		TextInputPath:    getEnv("TEXT_INPUT_PATH", ""),
		ProcessedCSVPath: getEnv("PROCESSED_CSV_PATH", "./data/processed/kamap_processed.csv"),
		GeocodedCSVPath:  getEnv("GEOCODED_CSV_PATH", "./data/geocoded/kamap_geocoded.csv"),
		EnrichedCSVPath:  getEnv("ENRICHED_CSV_PATH", "./data/geocoded/all_listings_geocoded.csv"),
		XLSXPath:         getEnv("XLSX_PATH", ""),
		ShapefilePath:    getEnv("SHAPEFILE_PATH", ""),
		ReportPDFPath:    getEnv("REPORT_PDF_PATH", ""),

		ReferenceYear:    getEnvInt("REFERENCE_YEAR", 2026),
		SourceLabel:      getEnv("SOURCE_LABEL", "Kamap Property Management"),
		SourceURL:        getEnv("SOURCE_URL", "https://www.kamap.net/"),
		AddressSuffix:    getEnv("ADDRESS_SUFFIX", ", Isla Vista, CA 93117"),
		AmenityTablePath: getEnv("AMENITY_TABLE_PATH", ""),

		GeocodeEnabled:    getEnvBool("GEOCODE_ENABLED", true),
		GeocoderURL:       getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent: getEnv("GEOCODER_USER_AGENT", "kamap-housing/1.0"),
		GeocodeRateMs:     getEnvInt("GEOCODE_RATE_LIMIT_MS", 1100),
		MaxRetries:        getEnvInt("MAX_RETRIES", 3),

		CampusLat:         getEnvFloat("CAMPUS_LAT", 34.4140),
		CampusLon:         getEnvFloat("CAMPUS_LON", -119.8489),
		DelPlayaLat:       getEnvFloat("DEL_PLAYA_LAT", 34.4133),
		DelPlayaLon:       getEnvFloat("DEL_PLAYA_LON", -119.8610),
		WalkMetersPerMin:  getEnvFloat("WALK_METERS_PER_MIN", 80),
		NoiseRadiusMeters: getEnvFloat("NOISE_RADIUS_METERS", 800),

		HTTPAddr:    getEnv("HTTP_ADDR", ":8080"),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:8501"}),

		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogJSON:       getEnvBool("LOG_JSON", false),
		FluentEnabled: getEnvBool("FLUENT_ENABLED", false),
		FluentHost:    getEnv("FLUENT_HOST", "127.0.0.1"),
		FluentPort:    getEnvInt("FLUENT_PORT", 24224),

		ChromeBin: getEnv("CHROME_BIN", ""),
	}
}

// Validate rejects values no run could succeed with.
func (c *Config) Validate() error {
	if c.PDFInputPath == "" && c.TextInputPath == "" {
		return fmt.Errorf("config: one of PDF_INPUT_PATH or TEXT_INPUT_PATH is required")
	}
	if c.ProcessedCSVPath == "" {
		return fmt.Errorf("config: PROCESSED_CSV_PATH is required")
	}
	if c.ReferenceYear < 1900 || c.ReferenceYear > 9999 {
		return fmt.Errorf("config: REFERENCE_YEAR %d out of range", c.ReferenceYear)
	}
	if c.GeocodeRateMs < 0 {
		return fmt.Errorf("config: GEOCODE_RATE_LIMIT_MS must not be negative")
	}
	if c.WalkMetersPerMin <= 0 {
		return fmt.Errorf("config: WALK_METERS_PER_MIN must be positive")
	}
	if c.NoiseRadiusMeters <= 0 {
		return fmt.Errorf("config: NOISE_RADIUS_METERS must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
