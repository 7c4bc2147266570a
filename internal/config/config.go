package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/boardprep/backend/internal/models"
	"github.com/joho/godotenv"
)

// Config holds every tunable the engine reads from the environment. Loaded
// once at startup; tests build their own values directly.
type Config struct {
	Port string

	// Curriculum calendar
	ProgramStart time.Time
	WeekCount    int
	ExamDate     time.Time

	// Progression gate retake exception. The week-1 pre-test stays repeatable
	// for diagnostic purposes (flagged for product confirmation); set
	// RETAKE_WEEK=0 to disable.
	RetakeWeek     int
	RetakeTestType models.TestType

	// Risk thresholds
	PassingScore float64

	// Remote ML scorer (optional; empty URL disables)
	ScorerURL     string
	ScorerTimeout time.Duration
}

const dateLayout = "2006-01-02"

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		ProgramStart:   getEnvDate("PROGRAM_START_DATE", "2026-06-08"),
		WeekCount:      getEnvInt("CURRICULUM_WEEKS", 8),
		ExamDate:       getEnvDate("BOARD_EXAM_DATE", "2026-10-25"),
		RetakeWeek:     getEnvInt("RETAKE_WEEK", 1),
		RetakeTestType: models.TestType(getEnv("RETAKE_TEST_TYPE", string(models.TestPre))),
		PassingScore:   getEnvFloat("PASSING_SCORE", 75.0),
		ScorerURL:      getEnv("ML_SCORER_URL", ""),
		ScorerTimeout:  getEnvDuration("ML_SCORER_TIMEOUT", 5*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not an integer: %v", key, v, err)
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Fatalf("config: %s=%q is not a number: %v", key, v, err)
	}
	return f
}

func getEnvDate(key, fallback string) time.Time {
	v := os.Getenv(key)
	if v == "" {
		v = fallback
	}
	t, err := time.Parse(dateLayout, v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a date (want YYYY-MM-DD): %v", key, v, err)
	}
	return t
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a duration: %v", key, v, err)
	}
	return d
}
