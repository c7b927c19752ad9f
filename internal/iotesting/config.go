// Package iotesting provides shared test utilities: configurations for
// integration tests and in-memory fakes of Odoo and PostgreSQL.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"os"
	"strconv"

	"github.com/fayvad/fbs/pkg/config"
)

const (
	// TestDatabaseName is the tracking database used for all integration
	// tests. This ensures tests never accidentally run against production
	// databases.
	TestDatabaseName = "fbs_test"
)

// GetTestConfig returns a configuration suitable for integration tests.
// Database settings can be changed by FBS_TEST_DB_HOST, FBS_TEST_DB_PORT,
// FBS_TEST_DB_USER and FBS_TEST_DB_PASSWORD.
//
// Usage in integration tests:
//
//	func TestSomething(t *testing.T) {
//	    if testing.Short() {
//	        t.Skip("Skipping integration test")
//	    }
//	    cfg := iotesting.GetTestConfig()
//	    // ... use cfg for database operations
//	}
func GetTestConfig() *config.Config {
	cfg := config.New()
	var opts []config.Option
	if s := os.Getenv("FBS_TEST_DB_HOST"); s != "" {
		opts = append(opts, config.OptDatabaseHost(s))
	}
	if s := os.Getenv("FBS_TEST_DB_PORT"); s != "" {
		if port, err := strconv.Atoi(s); err == nil {
			opts = append(opts, config.OptDatabasePort(port))
		}
	}
	if s := os.Getenv("FBS_TEST_DB_USER"); s != "" {
		opts = append(opts, config.OptDatabaseUser(s))
	}
	if s := os.Getenv("FBS_TEST_DB_PASSWORD"); s != "" {
		opts = append(opts, config.OptDatabasePassword(s))
	}
	opts = append(opts,
		config.OptDatabaseDatabase(TestDatabaseName),
		config.OptSchemaNamingPattern("fbs_test_{solution_name}_db"),
		config.OptJobsNumber(2),
	)
	cfg.Update(opts)
	return cfg
}
