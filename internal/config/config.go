package config

import (
	"os"
	"strconv"
	"time"

	"Firebox/internal/calc/heater"
	"Firebox/internal/calc/psychro"

	"github.com/ansel1/merry"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "conf/heater.ini"

type Server struct {
	Addr        string
	Cert        string
	Key         string
	Rate        float64
	Burst       int
	LogLevel    string
	ShutdownTTL time.Duration
}

type Psychrometrics struct {
	Method  string
	FixedPa float64
}

type Config struct {
	Server         Server
	Psychrometrics Psychrometrics
	Defaults       heater.ParameterSet
}

// Load reads the ini file at path. A missing file gives the built-in
// defaults.
func Load(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.WithField("path", path).Info("no config file, using defaults")
		return Parse(ini.Empty())
	}
	file, err := ini.Load(path)
	if err != nil {
		return Config{}, merry.Prependf(err, "config %s", path)
	}
	return Parse(file)
}

// Parse reads a loaded ini file.
func Parse(file *ini.File) (Config, error) {
	srv := file.Section("server")
	ps := file.Section("psychrometrics")
	c := Config{
		Server: Server{
			Addr:        srv.Key("addr").MustString(":8080"),
			Cert:        srv.Key("cert").MustString(""),
			Key:         srv.Key("key").MustString(""),
			Rate:        srv.Key("rate").MustFloat64(5),
			Burst:       srv.Key("burst").MustInt(10),
			LogLevel:    srv.Key("log_level").MustString("info"),
			ShutdownTTL: srv.Key("shutdown_timeout").MustDuration(5 * time.Second),
		},
		Psychrometrics: Psychrometrics{
			Method:  ps.Key("method").MustString("sonntag"),
			FixedPa: ps.Key("fixed_pa").MustFloat64(0),
		},
	}

	defaults, err := parseDefaults(file.Section("defaults"), heater.Defaults())
	if err != nil {
		return Config{}, err
	}
	c.Defaults = defaults

	if _, err := c.Lookup(); err != nil {
		return Config{}, merry.Prepend(err, "psychrometrics")
	}
	if _, err := log.ParseLevel(c.Server.LogLevel); err != nil {
		return Config{}, merry.Prepend(err, "server log_level")
	}
	return c, nil
}

func parseDefaults(sec *ini.Section, p heater.ParameterSet) (heater.ParameterSet, error) {
	var errs *multierror.Error
	for _, k := range sec.Keys() {
		f, ok := heater.LookupField(k.Name())
		if !ok {
			errs = multierror.Append(errs, merry.Errorf("unknown field %q", k.Name()))
			continue
		}
		v, err := k.Float64()
		if err != nil {
			errs = multierror.Append(errs, merry.Errorf("%s: %v", k.Name(), err))
			continue
		}
		p = f.Set(p, v)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return p, merry.Prepend(err, "defaults")
	}
	if err := p.Validate(); err != nil {
		return p, merry.Prepend(err, "defaults")
	}
	return p, nil
}

// Lookup returns the configured saturation pressure lookup.
func (c Config) Lookup() (psychro.Lookup, error) {
	return psychro.ByName(c.Psychrometrics.Method, c.Psychrometrics.FixedPa)
}

// Level returns the logrus level of the server.
func (s Server) Level() log.Level {
	lvl, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// Env holds the secrets read from the environment.
type Env struct {
	TokenKey             string
	DatabaseURL          string
	OperatorLogin        string
	OperatorPasswordHash string
	TokenBot             string
	Addr                 string
}

// LoadEnv loads .env files when present and reads the environment.
func LoadEnv(files ...string) Env {
	if err := godotenv.Load(files...); err != nil {
		log.WithError(err).Debug("no .env file")
	}
	return Env{
		TokenKey:             os.Getenv("TOKEN_KEY"),
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		OperatorLogin:        os.Getenv("OPERATOR_LOGIN"),
		OperatorPasswordHash: os.Getenv("OPERATOR_PASSWORD_HASH"),
		TokenBot:             os.Getenv("TOKEN_BOT"),
		Addr:                 os.Getenv("HEATER_ADDR"),
	}
}

// ScenarioFile is a yaml list of scenarios with report metadata.
type ScenarioFile struct {
	Project   string            `yaml:"project"`
	Author    string            `yaml:"author"`
	Notes     string            `yaml:"notes"`
	Scenarios []heater.Scenario `yaml:"scenarios"`
}

func ParseScenarios(data []byte) (ScenarioFile, error) {
	var f ScenarioFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return ScenarioFile{}, merry.Prepend(err, "scenario file")
	}
	if len(f.Scenarios) == 0 {
		return ScenarioFile{}, merry.New("scenario file has no scenarios")
	}
	for i := range f.Scenarios {
		if f.Scenarios[i].Name == "" {
			f.Scenarios[i].Name = "scenario " + strconv.Itoa(i+1)
		}
	}
	return f, nil
}

func ReadScenarios(path string) (ScenarioFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ScenarioFile{}, merry.Wrap(err)
	}
	return ParseScenarios(data)
}
