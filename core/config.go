package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Spreadsheet drivers
const (
	SheetsDriverGoogle = "google"
	SheetsDriverExcel  = "excel"
)

// Database engines
const (
	EnginePostgres = "postgres"
	EngineSQLite   = "sqlite"
)

type (
	Config struct {
		AppName      string
		Env          string // DEV (local; default), TEST, QA, PROD
		Build        string
		Debug        bool
		TestMode     bool
		WorkDir      string
		RollbarToken string

		Server    ServerConfig
		Database  DatabaseConfig
		Sheets    SheetsConfig
		Locations LocationsConfig
		Mail      MailConfig
	}

	ServerConfig struct {
		Host            string
		URL             string // where admin tools reach the API; derived from Host when empty
		DebugHost       string
		ShutdownTimeout time.Duration
		DisableReqLogs  bool
	}

	DatabaseConfig struct {
		Engine        string
		Host          string
		Port          int
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
		Path          string // sqlite only
	}

	SheetsConfig struct {
		Driver          string
		SpreadsheetID   string
		CredentialsFile string
		WorkbookPath    string // excel only
		StudentTab      string
		FacultyTab      string
		Timeout         time.Duration
	}

	LocationsConfig struct {
		BaseURL   string
		CacheTTL  time.Duration
		CacheSize int
		Timeout   time.Duration
	}

	MailConfig struct {
		DefaultFrom      string
		SendgridApiKey   string
		ReportRecipients []string
	}
)

func (db DatabaseConfig) Address() string {
	return net.JoinHostPort(db.Host, strconv.Itoa(db.Port))
}

func (conf *Config) DefaultFromEmail() mail.Address {
	addr, err := mail.ParseAddress(conf.Mail.DefaultFrom)
	if err != nil {
		return mail.Address{Name: conf.AppName, Address: conf.Mail.DefaultFrom}
	}
	return *addr
}

// ReportRecipients returns the parsed import report recipients, skipping invalid ones.
func (conf *Config) ReportRecipients() []mail.Address {
	addrs := make([]mail.Address, 0, len(conf.Mail.ReportRecipients))
	for _, r := range conf.Mail.ReportRecipients {
		if addr, err := mail.ParseAddress(CleanString(r)); err == nil {
			addrs = append(addrs, *addr)
		}
	}
	return addrs
}

// APIURL returns the base URL of the running API server.
func (conf *Config) APIURL() string {
	if conf.Server.URL != "" {
		return strings.TrimSuffix(conf.Server.URL, "/")
	}
	host := conf.Server.Host
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	return "http://" + host
}

// SpreadsheetURL returns the browser URL of the configured spreadsheet.
func (conf *Config) SpreadsheetURL() string {
	if conf.Sheets.Driver == SheetsDriverExcel {
		return conf.Sheets.WorkbookPath
	}
	return "https://docs.google.com/spreadsheets/d/" + conf.Sheets.SpreadsheetID
}

func setDefaults(v *viper.Viper) {
	v.SetTypeByDefaultValue(true)

	v.SetDefault("debug", true)
	v.SetDefault("appName", "Registrar")
	v.SetDefault("build", "develop")
	v.SetDefault("rollbarToken", "")

	v.SetDefault("server.host", ":8000")
	v.SetDefault("server.url", "")
	v.SetDefault("server.debugHost", ":4000")
	v.SetDefault("server.shutdownTimeout", 5*time.Second)
	v.SetDefault("server.disableReqLogs", false)

	v.SetDefault("database.engine", EnginePostgres)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "registrar")
	v.SetDefault("database.user", "registrar")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "postgres")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)
	v.SetDefault("database.path", "registrar.db")

	v.SetDefault("sheets.driver", SheetsDriverGoogle)
	v.SetDefault("sheets.spreadsheetId", "")
	v.SetDefault("sheets.credentialsFile", "config/google-credentials.json")
	v.SetDefault("sheets.workbookPath", "registrar.xlsx")
	v.SetDefault("sheets.studentTab", "All Students Data")
	v.SetDefault("sheets.facultyTab", "All Faculty Data")
	v.SetDefault("sheets.timeout", 30*time.Second)

	v.SetDefault("locations.baseUrl", "https://psgc.gitlab.io/api")
	v.SetDefault("locations.cacheTtl", 24*time.Hour)
	v.SetDefault("locations.cacheSize", 512)
	v.SetDefault("locations.timeout", 10*time.Second)

	v.SetDefault("mail.defaultFrom", "Registrar <noreply@localhost>")
	v.SetDefault("mail.sendgridApiKey", "")
	v.SetDefault("mail.reportRecipients", "")
}

// NewConfig loads the configuration from defaults, the optional `config/.env.<env>` file and the environment.
// Environment variables are prefixed with the upper-cased env name, e.g. `DEV_SHEETS_SPREADSHEETID`.
func NewConfig() *Config {
	v := viper.New()
	setDefaults(v)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	workDir := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	return &Config{
		AppName:      v.GetString("appName"),
		Env:          env,
		Build:        v.GetString("build"),
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		WorkDir:      workDir,
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			URL:             v.GetString("server.url"),
			DebugHost:       v.GetString("server.debugHost"),
			ShutdownTimeout: v.GetDuration("server.shutdownTimeout"),
			DisableReqLogs:  v.GetBool("server.disableReqLogs"),
		},
		Database: DatabaseConfig{
			Engine:        v.GetString("database.engine"),
			Host:          v.GetString("database.host"),
			Port:          v.GetInt("database.port"),
			Name:          v.GetString("database.name"),
			User:          v.GetString("database.user"),
			Password:      v.GetString("database.password"),
			AdminUser:     v.GetString("database.adminUser"),
			AdminPassword: v.GetString("database.adminPassword"),
			DisableTLS:    v.GetBool("database.disableTLS"),
			Path:          v.GetString("database.path"),
		},
		Sheets: SheetsConfig{
			Driver:          strings.ToLower(v.GetString("sheets.driver")),
			SpreadsheetID:   v.GetString("sheets.spreadsheetId"),
			CredentialsFile: v.GetString("sheets.credentialsFile"),
			WorkbookPath:    v.GetString("sheets.workbookPath"),
			StudentTab:      v.GetString("sheets.studentTab"),
			FacultyTab:      v.GetString("sheets.facultyTab"),
			Timeout:         v.GetDuration("sheets.timeout"),
		},
		Locations: LocationsConfig{
			BaseURL:   strings.TrimRight(v.GetString("locations.baseUrl"), "/"),
			CacheTTL:  v.GetDuration("locations.cacheTtl"),
			CacheSize: v.GetInt("locations.cacheSize"),
			Timeout:   v.GetDuration("locations.timeout"),
		},
		Mail: MailConfig{
			DefaultFrom:      v.GetString("mail.defaultFrom"),
			SendgridApiKey:   v.GetString("mail.sendgridApiKey"),
			ReportRecipients: splitList(v.GetString("mail.reportRecipients")),
		},
	}
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = CleanString(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
