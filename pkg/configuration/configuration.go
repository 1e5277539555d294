package configuration

import (
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/parcurs-ro/parcurs/pkg/logging"
)

var singleton = sync.OnceValue(func() *Configuration {
	c := &Configuration{}
	if err := c.load([]string{".env", ".env.local"}); err != nil {
		c.Unload()
		panic(err)
	}
	return c
})

// Use returns the process-wide configuration, loading it on first call.
func Use() *Configuration {
	return singleton()
}

// LoadEnv loads whichever of the given env files exist and reports how many
// were found.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// Configuration holds everything the pipeline reads from the environment.
type Configuration struct {
	// InputDir is where the collected rolls live, one subdirectory per
	// profession holding its CSV/XLSX files.
	InputDir string `env:"INPUT_DIR" envDefault:"collect"`
	// OutputDir receives the preprocessed tables and all audit logs.
	OutputDir string `env:"OUTPUT_DIR" envDefault:"prep"`
	// DataDir holds the curated resource files (name dictionary, workplace
	// codes, correction lists).
	DataDir string `env:"DATA_DIR" envDefault:"data"`

	// LengthenWindowYears bounds the look-around of the name-lengthening
	// pass; zero means the full span of the data.
	LengthenWindowYears int `env:"LENGTHEN_WINDOW_YEARS" envDefault:"30"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogPath  string `env:"LOG_PATH" envDefault:"./logs/parcurs.log"`

	logFile *os.File
	logger  *logrus.Logger
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

// Resource file locations, all under DataDir.

func (c *Configuration) GenderDictPath() string {
	return filepath.Join(c.DataDir, "gender_dict.yaml")
}

func (c *Configuration) WorkplaceCodesPath() string {
	return filepath.Join(c.DataDir, "workplace_codes.yaml")
}

func (c *Configuration) AdhocCorrectionsPath() string {
	return filepath.Join(c.DataDir, "adhoc_corrections.yaml")
}

func (c *Configuration) LengthenExceptionsPath() string {
	return filepath.Join(c.DataDir, "lengthen_exceptions.yaml")
}

func (c *Configuration) SurnameChangeSkipPath() string {
	return filepath.Join(c.DataDir, "surname_change_skip.yaml")
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return err
	}
	if n == 0 {
		wd, _ := os.Getwd()
		log.Println("No .env files found. Tried:")
		for _, file := range envFiles {
			log.Println(filepath.Join(wd, file))
		}
	}
	if err := env.Parse(c); err != nil {
		return err
	}
	f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.LogPath)
	if err != nil {
		return err
	}
	c.logFile = f
	c.logger = logger
	return nil
}

// Unload releases resources held by the configuration.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		_ = c.logFile.Close()
	}
}
