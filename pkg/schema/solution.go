package schema

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	identRe    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	solutionRe = regexp.MustCompile(`^[a-z][a-z0-9_]{0,39}$`)
)

// SafeIdent checks that a name can be used as an unquoted SQL
// identifier.
func SafeIdent(name string) (string, error) {
	if !identRe.MatchString(name) {
		return "", fmt.Errorf("invalid identifier: %q", name)
	}
	return name, nil
}

// ValidSolutionName reports whether a solution name can be used in
// database names: lowercase letters, digits and underscores, up to 40
// characters, starting with a letter.
func ValidSolutionName(name string) bool {
	return solutionRe.MatchString(name)
}

// QuoteLiteral returns a SQL string literal with escaped single quotes.
// Strings with backslashes use the E'' syntax, so the literal does not
// depend on standard_conforming_strings.
func QuoteLiteral(s string) string {
	s = strings.ReplaceAll(s, "'", "''")
	if strings.Contains(s, `\`) {
		return "E'" + strings.ReplaceAll(s, `\`, `\\`) + "'"
	}
	return "'" + s + "'"
}

// DatabaseCredentials is the role that owns a solution database.
type DatabaseCredentials struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

// SolutionConfig describes a solution database to create.
type SolutionConfig struct {
	SolutionName   string              `json:"solution_name"`
	Domain         string              `json:"domain"`
	DatabaseConfig DatabaseCredentials `json:"database_config"`

	// TablePrefix of system tables, empty means the configured default.
	TablePrefix string `json:"table_prefix,omitempty"`

	// BusinessPrefix of business tables, empty means "<domain>_".
	BusinessPrefix string `json:"business_prefix,omitempty"`
}

// ValidationResult is the outcome of SolutionConfig validation.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// WithDefaults returns a copy of the config with normalized domain and
// filled prefixes.
func (sc SolutionConfig) WithDefaults(tablePrefix string) SolutionConfig {
	sc.SolutionName = strings.TrimSpace(sc.SolutionName)
	sc.Domain = strings.ToLower(strings.TrimSpace(sc.Domain))
	if sc.TablePrefix == "" {
		sc.TablePrefix = tablePrefix
	}
	if sc.BusinessPrefix == "" && sc.Domain != "" {
		sc.BusinessPrefix = sc.Domain + "_"
	}
	return sc
}

// Prefixes returns table prefixes of the solution.
func (sc SolutionConfig) Prefixes() Prefixes {
	return Prefixes{Table: sc.TablePrefix, Business: sc.BusinessPrefix}
}

// Validate checks the config. Call it after WithDefaults.
func (sc SolutionConfig) Validate() ValidationResult {
	var errs []string
	switch {
	case sc.SolutionName == "":
		errs = append(errs, "solution_name is required")
	case !solutionRe.MatchString(sc.SolutionName):
		errs = append(errs, fmt.Sprintf(
			"solution_name %q must be lowercase letters, digits or underscores, "+
				"start with a letter and be at most 40 characters long",
			sc.SolutionName,
		))
	}

	if sc.Domain == "" {
		errs = append(errs, "domain is required")
	} else if _, err := SafeIdent(sc.Domain); err != nil {
		errs = append(errs, fmt.Sprintf("domain %q is not a valid name", sc.Domain))
	}

	if sc.DatabaseConfig.User == "" {
		errs = append(errs, "database_config.user is required")
	} else if _, err := SafeIdent(sc.DatabaseConfig.User); err != nil {
		errs = append(errs, fmt.Sprintf("database_config.user %q is not a valid role name", sc.DatabaseConfig.User))
	}
	switch {
	case sc.DatabaseConfig.Password == "":
		errs = append(errs, "database_config.password is required")
	case strings.ContainsRune(sc.DatabaseConfig.Password, 0):
		errs = append(errs, "database_config.password must not contain NUL characters")
	}

	prefixes := [][2]string{
		{"table_prefix", sc.TablePrefix},
		{"business_prefix", sc.BusinessPrefix},
	}
	for _, p := range prefixes {
		if p[1] == "" {
			errs = append(errs, p[0]+" is required")
			continue
		}
		if _, err := SafeIdent(p[1]); err != nil {
			errs = append(errs, fmt.Sprintf("%s %q is not a valid prefix", p[0], p[1]))
		}
	}
	if sc.TablePrefix != "" && sc.TablePrefix == sc.BusinessPrefix {
		errs = append(errs, "table_prefix and business_prefix must differ")
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// Plan is the DDL of a solution database.
type Plan struct {
	Prefixes       Prefixes
	SystemTables   []Table
	BusinessTables []Table
}

// NewPlan creates the DDL plan for a solution.
func NewPlan(sc SolutionConfig) Plan {
	return Plan{
		Prefixes:       sc.Prefixes(),
		SystemTables:   SystemTables(),
		BusinessTables: BusinessTables(sc.Domain),
	}
}

// Statements returns table statements followed by index statements.
// Tables are created before any index so that foreign keys and indexes
// find their tables.
func (p Plan) Statements() []string {
	var tables, indexes []string
	for _, t := range p.tables() {
		tables = append(tables, t.TableDDL(p.Prefixes))
		indexes = append(indexes, t.IndexDDL(p.Prefixes)...)
	}
	return append(tables, indexes...)
}

// SystemTableNames returns prefixed names of system tables.
func (p Plan) SystemTableNames() []string {
	return tableNames(p.SystemTables, p.Prefixes)
}

// BusinessTableNames returns prefixed names of business tables.
func (p Plan) BusinessTableNames() []string {
	return tableNames(p.BusinessTables, p.Prefixes)
}

// IndexNames returns names of all indexes of the plan.
func (p Plan) IndexNames() []string {
	var res []string
	for _, t := range p.tables() {
		res = append(res, t.IndexNames(p.Prefixes)...)
	}
	return res
}

// Definition returns the schema definition of all planned tables.
func (p Plan) Definition() Definition {
	res := make(Definition)
	for _, t := range p.tables() {
		res[t.TableName(p.Prefixes)] = t.Definition(p.Prefixes)
	}
	return res
}

func (p Plan) tables() []Table {
	res := make([]Table, 0, len(p.SystemTables)+len(p.BusinessTables))
	res = append(res, p.SystemTables...)
	return append(res, p.BusinessTables...)
}

func tableNames(ts []Table, p Prefixes) []string {
	res := make([]string, len(ts))
	for i, t := range ts {
		res[i] = t.TableName(p)
	}
	return res
}

// CreateResult is the outcome of solution schema creation.
type CreateResult struct {
	SolutionName          string   `json:"solution_name"`
	Database              string   `json:"database"`
	CreatedDatabase       bool     `json:"created_database"`
	FBSTablesCreated      []string `json:"fbs_tables_created"`
	BusinessTablesCreated []string `json:"business_tables_created"`
	IndexesCreated        []string `json:"indexes_created"`
}

// DatabaseGrants returns statements run on the maintenance database to
// let the solution role use the solution database.
func DatabaseGrants(database, role string) []string {
	return []string{
		fmt.Sprintf("GRANT CONNECT, CREATE, TEMPORARY ON DATABASE %s TO %s", database, role),
	}
}

// SchemaGrants returns statements run inside the solution database.
func SchemaGrants(role string) []string {
	return []string{
		fmt.Sprintf("GRANT USAGE, CREATE ON SCHEMA public TO %s", role),
		fmt.Sprintf("GRANT ALL PRIVILEGES ON ALL TABLES IN SCHEMA public TO %s", role),
		fmt.Sprintf("GRANT ALL PRIVILEGES ON ALL SEQUENCES IN SCHEMA public TO %s", role),
		fmt.Sprintf("ALTER DEFAULT PRIVILEGES IN SCHEMA public GRANT ALL PRIVILEGES ON TABLES TO %s", role),
		fmt.Sprintf("ALTER DEFAULT PRIVILEGES IN SCHEMA public GRANT ALL PRIVILEGES ON SEQUENCES TO %s", role),
	}
}

// CreateRole returns a statement that creates a login role. The role
// must be a safe identifier, the password becomes a single string
// literal.
func CreateRole(role, password string) string {
	return fmt.Sprintf("CREATE ROLE %s LOGIN PASSWORD %s", role, QuoteLiteral(password))
}
