// Package config provides configuration management for the OddsEdge engine.
package config

import (
	"os"
	"testing"

	"github.com/yourusername/oddsedge/internal/models"
)

const (
	validConfigPath              = "testdata/valid_config.yaml"
	expansionConfigPath          = "testdata/expansion_config.yaml"
	expansionConfigMissingPath   = "testdata/expansion_config_missing.yaml"
	nonexistentConfigPath        = "testdata/nonexistent_config.yaml"
	expectedNoErrorLoadingConfig = "expected no error loading config, got %v"
	expectedNoErrorMsg           = "expected no error, got %v"
	expectedNonNilConfig         = "expected non-nil config"
	appName                      = "oddsedge"
	developmentEnv               = "development"
	invalidEnv                   = "invalid"
	localhostHost                = "localhost"
	postgresPort                 = 5432
	postgresPrefix               = "postgres://"
	testAppName                  = "test-app"
	testDBPassword               = "TEST_DB_PASSWORD"
	testMissingVar               = "TEST_MISSING_VAR"
	expandedSecretValue          = "expanded_secret_value"
)

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg == nil {
		t.Fatal(expectedNonNilConfig)
	}

	if cfg.App.Name != appName {
		t.Errorf("expected app name '%s', got '%s'", appName, cfg.App.Name)
	}

	if cfg.App.Environment != developmentEnv {
		t.Errorf("expected environment '%s', got '%s'", developmentEnv, cfg.App.Environment)
	}

	if cfg.Database.Host != localhostHost {
		t.Errorf("expected database host '%s', got '%s'", localhostHost, cfg.Database.Host)
	}

	if cfg.Database.Port != postgresPort {
		t.Errorf("expected database port %d, got %d", postgresPort, cfg.Database.Port)
	}

	if cfg.Engine.DevigMethod != "multiplicative" {
		t.Errorf("expected devig method 'multiplicative', got '%s'", cfg.Engine.DevigMethod)
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	// Set an environment variable
	os.Setenv("ODDSEDGE_APP_NAME", testAppName)
	defer os.Unsetenv("ODDSEDGE_APP_NAME")

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.App.Name != testAppName {
		t.Errorf("expected app name '%s' from environment, got '%s'", testAppName, cfg.App.Name)
	}
}

// TestValidateSuccess tests validation of a valid configuration
func TestValidateSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	err = Validate(cfg)
	if err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

// TestValidateInvalidEnvironment tests validation of invalid environment
func TestValidateInvalidEnvironment(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.App.Environment = invalidEnv
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid environment")
	}
}

// TestValidateInvalidDevigMethod tests validation of the devig method field
func TestValidateInvalidDevigMethod(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.Engine.DevigMethod = "shin-exact"
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid devig method")
	}
}

// TestValidateRatingsOptional tests that the ratings client can be disabled
func TestValidateRatingsOptional(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	// Clearing the base URL disables the client and lifts the field checks
	cfg.Ratings = RatingsConfig{}
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no validation error without ratings, got %v", err)
	}

	// With a base URL set the client fields are enforced again
	cfg.Ratings.BaseURL = "https://ratings.example.com"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for ratings URL without timeout")
	}
}

// TestValidateProductionRequiresSSL tests production SSL enforcement
func TestValidateProductionRequiresSSL(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.App.Environment = "production"
	cfg.Database.SSLMode = "disable"
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for disabled SSL in production")
	}
}

// TestValidateConnectionPool tests idle/max connection ordering
func TestValidateConnectionPool(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	cfg.Database.MaxIdleConnections = cfg.Database.MaxConnections + 1
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for idle connections above max")
	}
}

// TestGetDatabaseDSN tests DSN generation
func TestGetDatabaseDSN(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	dsn := cfg.GetDatabaseDSN()
	if dsn == "" {
		t.Fatal("expected non-empty DSN")
	}

	if !containsSubstring(dsn, postgresPrefix) {
		t.Errorf("expected DSN to start with '%s', got '%s'", postgresPrefix, dsn)
	}
}

// TestIsDevelopment tests environment check function
func TestIsDevelopment(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: developmentEnv},
	}

	if !cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return true")
	}

	if cfg.IsProduction() {
		t.Error("expected IsProduction() to return false")
	}
}

// TestIsProduction tests production environment check
func TestIsProduction(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: "production"},
	}

	if !cfg.IsProduction() {
		t.Error("expected IsProduction() to return true")
	}

	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return false")
	}
}

// TestIsStaging tests staging environment check
func TestIsStaging(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: "staging"},
	}

	if !cfg.IsStaging() {
		t.Error("expected IsStaging() to return true")
	}

	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return false")
	}
}

// TestLoadConfigEnvironmentVariableExpansion tests environment variable expansion in config file
func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	// Set environment variable
	os.Setenv(testDBPassword, expandedSecretValue)
	defer os.Unsetenv(testDBPassword)

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config with expansion, got %v", err)
	}

	if cfg.Database.Password != expandedSecretValue {
		t.Errorf("expected password '%s' from environment expansion, got '%s'", expandedSecretValue, cfg.Database.Password)
	}
}

// TestLoadConfigMissingEnvironmentVariable tests handling of missing environment variables
func TestLoadConfigMissingEnvironmentVariable(t *testing.T) {
	// Ensure environment variable is not set
	os.Unsetenv(testMissingVar)

	cfg, err := Load(expansionConfigMissingPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingConfig, err)
	}

	// Missing variables should be kept as literal ${VAR} or empty depending on os.ExpandEnv behavior
	// os.ExpandEnv leaves ${VAR} as-is if VAR is not set
	expectedLiteral := "${TEST_MISSING_VAR}"
	if cfg.Database.Password != expectedLiteral && cfg.Database.Password != "" {
		t.Logf("note: missing env var became: %q (expected literal or empty)", cfg.Database.Password)
	}
}

// TestSportBaseline tests baseline lookups across sports
func TestSportBaseline(t *testing.T) {
	nba, err := SportBaseline(models.SportBasketball, "NBA", "total")
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if nba.Mu != 228.0 || nba.Sigma != 12.0 {
		t.Errorf("unexpected NBA total baseline: %+v", nba)
	}

	epl, err := SportBaseline(models.SportFootball, "Premier League", "goals")
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}
	if epl.LambdaHome != 1.5 || epl.LambdaAway != 1.2 {
		t.Errorf("unexpected Premier League goals baseline: %+v", epl)
	}

	// Market names are matched ignoring case, dashes and underscores
	if _, err := SportBaseline(models.SportFootball, "Premier League", "1X2"); err != nil {
		t.Errorf("expected normalized market lookup to succeed, got %v", err)
	}

	if _, err := SportBaseline(models.SportTennis, "Challenger Tour", "games"); err == nil {
		t.Error("expected error for unconfigured league")
	}
}

// TestEVThreshold tests EV floor lookups with defaults
func TestEVThreshold(t *testing.T) {
	if got := EVThreshold(models.SportBasketball, "NBA", "total", 0.03); got != 0.02 {
		t.Errorf("expected NBA total EV floor 0.02, got %v", got)
	}

	if got := EVThreshold(models.SportFootball, "Liga Colombiana", "1x2", 0.03); got != 0.06 {
		t.Errorf("expected Liga Colombiana 1X2 EV floor 0.06, got %v", got)
	}

	// Unknown triples fall back to the engine floor
	if got := EVThreshold(models.SportFootball, "Eredivisie", "goals", 0.03); got != 0.03 {
		t.Errorf("expected fallback EV floor 0.03, got %v", got)
	}
	if got := EVThreshold(models.SportFootball, "Eredivisie", "goals", 0.05); got != 0.05 {
		t.Errorf("expected fallback EV floor 0.05, got %v", got)
	}
}

// TestAnomalyThreshold tests per-sport z-score thresholds
func TestAnomalyThreshold(t *testing.T) {
	if got := AnomalyThreshold(models.SportBasketball); got != 1.2 {
		t.Errorf("expected basketball threshold 1.2, got %v", got)
	}
	if got := AnomalyThreshold(models.SportFootball); got != 1.5 {
		t.Errorf("expected football threshold 1.5, got %v", got)
	}
	if got := AnomalyThreshold(models.SportTennis); got != 1.8 {
		t.Errorf("expected tennis threshold 1.8, got %v", got)
	}
}

// TestMinBookmakers tests coverage floors for major and minor leagues
func TestMinBookmakers(t *testing.T) {
	if got := MinBookmakers("NBA"); got != 3 {
		t.Errorf("expected 3 bookmakers for NBA, got %d", got)
	}
	if got := MinBookmakers("Liga Colombiana"); got != 2 {
		t.Errorf("expected 2 bookmakers for minor league, got %d", got)
	}
}

// Helper function
func containsSubstring(str, substr string) bool {
	for i := 0; i <= len(str)-len(substr); i++ {
		if str[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
