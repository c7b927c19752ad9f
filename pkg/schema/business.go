package schema

import "time"

// GenericDomain is the business table set used for domains without
// their own set.
const GenericDomain = "generic"

// Rental business rows.

type RentalProperty struct {
	ID                  int       `db:"id" ddl:"SERIAL PRIMARY KEY"`
	OdooID              int       `db:"odoo_id" ddl:"INTEGER"`
	PropertyName        string    `db:"property_name" ddl:"VARCHAR(255) NOT NULL"`
	PropertyType        string    `db:"property_type" ddl:"VARCHAR(50)"`
	PropertyDescription string    `db:"property_description" ddl:"TEXT"`
	Address             string    `db:"address" ddl:"TEXT"`
	MonthlyRent         float64   `db:"monthly_rent" ddl:"NUMERIC(12,2)"`
	Status              string    `db:"status" ddl:"VARCHAR(20) NOT NULL DEFAULT 'available'"`
	CreatedAt           time.Time `db:"created_at" ddl:"TIMESTAMPTZ NOT NULL DEFAULT NOW()"`
	UpdatedAt           time.Time `db:"updated_at" ddl:"TIMESTAMPTZ NOT NULL DEFAULT NOW()"`
}

type RentalTenant struct {
	ID          int       `db:"id" ddl:"SERIAL PRIMARY KEY"`
	OdooID      int       `db:"odoo_id" ddl:"INTEGER"`
	TenantName  string    `db:"tenant_name" ddl:"VARCHAR(255) NOT NULL"`
	TenantEmail string    `db:"tenant_email" ddl:"VARCHAR(255)"`
	TenantPhone string    `db:"tenant_phone" ddl:"VARCHAR(50)"`
	CreatedAt   time.Time `db:"created_at" ddl:"TIMESTAMPTZ NOT NULL DEFAULT NOW()"`
	UpdatedAt   time.Time `db:"updated_at" ddl:"TIMESTAMPTZ NOT NULL DEFAULT NOW()"`
}

type RentalLease struct {
	ID             int       `db:"id" ddl:"SERIAL PRIMARY KEY"`
	OdooID         int       `db:"odoo_id" ddl:"INTEGER"`
	PropertyID     int       `db:"property_id" ddl:"INTEGER NOT NULL REFERENCES {bp}property(id) ON DELETE RESTRICT"`
	TenantID       int       `db:"tenant_id" ddl:"INTEGER NOT NULL REFERENCES {bp}tenant(id) ON DELETE RESTRICT"`
	LeaseStartDate time.Time `db:"lease_start_date" ddl:"DATE"`
	LeaseEndDate   time.Time `db:"lease_end_date" ddl:"DATE"`
	TotalRent      float64   `db:"total_rent" ddl:"NUMERIC(12,2)"`
	Deposit        float64   `db:"deposit" ddl:"NUMERIC(12,2)"`
	Status         string    `db:"status" ddl:"VARCHAR(30) NOT NULL DEFAULT 'application'"`
	CreatedAt      time.Time `db:"created_at" ddl:"TIMESTAMPTZ NOT NULL DEFAULT NOW()"`
	UpdatedAt      time.Time `db:"updated_at" ddl:"TIMESTAMPTZ NOT NULL DEFAULT NOW()"`
}

type RentalPayment struct {
	ID            int       `db:"id" ddl:"SERIAL PRIMARY KEY"`
	OdooID        int       `db:"odoo_id" ddl:"INTEGER"`
	LeaseID       int       `db:"lease_id" ddl:"INTEGER NOT NULL REFERENCES {bp}lease(id) ON DELETE CASCADE"`
	PaymentAmount float64   `db:"payment_amount" ddl:"NUMERIC(12,2) NOT NULL"`
	PaymentDate   time.Time `db:"payment_date" ddl:"DATE"`
	Status        string    `db:"status" ddl:"VARCHAR(20) NOT NULL DEFAULT 'pending'"`
	CreatedAt     time.Time `db:"created_at" ddl:"TIMESTAMPTZ NOT NULL DEFAULT NOW()"`
}

type RentalMaintenance struct {
	ID           int       `db:"id" ddl:"SERIAL PRIMARY KEY"`
	OdooID       int       `db:"odoo_id" ddl:"INTEGER"`
	PropertyID   int       `db:"property_id" ddl:"INTEGER NOT NULL REFERENCES {bp}property(id) ON DELETE CASCADE"`
	IssueTitle   string    `db:"issue_title" ddl:"VARCHAR(255) NOT NULL"`
	Description  string    `db:"description" ddl:"TEXT"`
	Priority     string    `db:"priority" ddl:"VARCHAR(20)"`
	Status       string    `db:"status" ddl:"VARCHAR(20) NOT NULL DEFAULT 'reported'"`
	ReportedDate time.Time `db:"reported_date" ddl:"DATE"`
	ResolvedDate time.Time `db:"resolved_date" ddl:"DATE"`
	CreatedAt    time.Time `db:"created_at" ddl:"TIMESTAMPTZ NOT NULL DEFAULT NOW()"`
}

// Ecommerce business rows.

type EcommerceProduct struct {
	ID                 int       `db:"id" ddl:"SERIAL PRIMARY KEY"`
	OdooID             int       `db:"odoo_id" ddl:"INTEGER"`
	ProductName        string    `db:"product_name" ddl:"VARCHAR(255) NOT NULL"`
	SKU                string    `db:"sku" ddl:"VARCHAR(100)"`
	Price              float64   `db:"price" ddl:"NUMERIC(12,2)"`
	ProductDescription string    `db:"product_description" ddl:"TEXT"`
	StockQuantity      int       `db:"stock_quantity" ddl:"INTEGER NOT NULL DEFAULT 0"`
	CreatedAt          time.Time `db:"created_at" ddl:"TIMESTAMPTZ NOT NULL DEFAULT NOW()"`
}

type EcommerceCustomer struct {
	ID            int       `db:"id" ddl:"SERIAL PRIMARY KEY"`
	OdooID        int       `db:"odoo_id" ddl:"INTEGER"`
	CustomerName  string    `db:"customer_name" ddl:"VARCHAR(255) NOT NULL"`
	CustomerEmail string    `db:"customer_email" ddl:"VARCHAR(255)"`
	CreatedAt     time.Time `db:"created_at" ddl:"TIMESTAMPTZ NOT NULL DEFAULT NOW()"`
}

type EcommerceOrder struct {
	ID         int       `db:"id" ddl:"SERIAL PRIMARY KEY"`
	OdooID     int       `db:"odoo_id" ddl:"INTEGER"`
	CustomerID int       `db:"customer_id" ddl:"INTEGER REFERENCES {bp}customer(id) ON DELETE SET NULL"`
	OrderDate  time.Time `db:"order_date" ddl:"TIMESTAMPTZ"`
	OrderTotal float64   `db:"order_total" ddl:"NUMERIC(12,2)"`
	Status     string    `db:"status" ddl:"VARCHAR(20) NOT NULL DEFAULT 'cart'"`
	CreatedAt  time.Time `db:"created_at" ddl:"TIMESTAMPTZ NOT NULL DEFAULT NOW()"`
}

// HR business rows.

type HRDepartment struct {
	ID             int       `db:"id" ddl:"SERIAL PRIMARY KEY"`
	OdooID         int       `db:"odoo_id" ddl:"INTEGER"`
	DepartmentName string    `db:"department_name" ddl:"VARCHAR(255) NOT NULL"`
	HeadID         int       `db:"head_id" ddl:"INTEGER"`
	CreatedAt      time.Time `db:"created_at" ddl:"TIMESTAMPTZ NOT NULL DEFAULT NOW()"`
}

type HREmployee struct {
	ID           int       `db:"id" ddl:"SERIAL PRIMARY KEY"`
	OdooID       int       `db:"odoo_id" ddl:"INTEGER"`
	EmployeeName string    `db:"employee_name" ddl:"VARCHAR(255) NOT NULL"`
	Email        string    `db:"email" ddl:"VARCHAR(255)"`
	Position     string    `db:"position" ddl:"VARCHAR(255)"`
	DepartmentID int       `db:"department_id" ddl:"INTEGER REFERENCES {bp}department(id) ON DELETE SET NULL"`
	HireDate     time.Time `db:"hire_date" ddl:"DATE"`
	Status       string    `db:"status" ddl:"VARCHAR(20) NOT NULL DEFAULT 'active'"`
	CreatedAt    time.Time `db:"created_at" ddl:"TIMESTAMPTZ NOT NULL DEFAULT NOW()"`
}

// Generic business rows.

type GenericEntity struct {
	ID         int       `db:"id" ddl:"SERIAL PRIMARY KEY"`
	OdooID     int       `db:"odoo_id" ddl:"INTEGER"`
	Name       string    `db:"name" ddl:"VARCHAR(255) NOT NULL"`
	EntityType string    `db:"entity_type" ddl:"VARCHAR(100)"`
	Data       string    `db:"data" ddl:"JSONB NOT NULL DEFAULT '{}'"`
	CreatedAt  time.Time `db:"created_at" ddl:"TIMESTAMPTZ NOT NULL DEFAULT NOW()"`
}

type GenericTransaction struct {
	ID              int       `db:"id" ddl:"SERIAL PRIMARY KEY"`
	EntityID        int       `db:"entity_id" ddl:"INTEGER REFERENCES {bp}entity(id) ON DELETE CASCADE"`
	Amount          float64   `db:"amount" ddl:"NUMERIC(12,2)"`
	TransactionDate time.Time `db:"transaction_date" ddl:"TIMESTAMPTZ"`
	Data            string    `db:"data" ddl:"JSONB NOT NULL DEFAULT '{}'"`
	CreatedAt       time.Time `db:"created_at" ddl:"TIMESTAMPTZ NOT NULL DEFAULT NOW()"`
}

// Referenced tables come before the tables that reference them.
var businessTables = map[string][]Table{
	"rental": {
		{Name: "property", Business: true, Model: RentalProperty{}, Indexes: []Index{
			{Name: "status", Columns: []string{"status"}},
		}},
		{Name: "tenant", Business: true, Model: RentalTenant{}, Indexes: []Index{
			{Name: "email", Columns: []string{"tenant_email"}},
		}},
		{Name: "lease", Business: true, Model: RentalLease{}, Indexes: []Index{
			{Name: "property", Columns: []string{"property_id"}},
			{Name: "tenant", Columns: []string{"tenant_id"}},
			{Name: "status", Columns: []string{"status"}},
		}},
		{Name: "payment", Business: true, Model: RentalPayment{}, Indexes: []Index{
			{Name: "lease", Columns: []string{"lease_id"}},
			{Name: "date", Columns: []string{"payment_date"}},
		}},
		{Name: "maintenance", Business: true, Model: RentalMaintenance{}, Indexes: []Index{
			{Name: "property", Columns: []string{"property_id"}},
		}},
	},
	"ecommerce": {
		{Name: "product", Business: true, Model: EcommerceProduct{}, Indexes: []Index{
			{Name: "sku", Columns: []string{"sku"}},
		}},
		{Name: "customer", Business: true, Model: EcommerceCustomer{}, Indexes: []Index{
			{Name: "email", Columns: []string{"customer_email"}},
		}},
		{Name: "order", Business: true, Model: EcommerceOrder{}, Indexes: []Index{
			{Name: "customer", Columns: []string{"customer_id"}},
			{Name: "status", Columns: []string{"status"}},
		}},
	},
	"hr": {
		{Name: "department", Business: true, Model: HRDepartment{}},
		{Name: "employee", Business: true, Model: HREmployee{}, Indexes: []Index{
			{Name: "department", Columns: []string{"department_id"}},
		}},
	},
	GenericDomain: {
		{Name: "entity", Business: true, Model: GenericEntity{}, Indexes: []Index{
			{Name: "type", Columns: []string{"entity_type"}},
		}},
		{Name: "transaction", Business: true, Model: GenericTransaction{}, Indexes: []Index{
			{Name: "entity", Columns: []string{"entity_id"}},
		}},
	},
}

// BusinessTables returns the business table set of a domain, or the
// generic set for domains without one.
func BusinessTables(domain string) []Table {
	if ts, ok := businessTables[domain]; ok {
		return ts
	}
	return businessTables[GenericDomain]
}

// HasBusinessTables reports if a domain has its own business table set.
func HasBusinessTables(domain string) bool {
	_, ok := businessTables[domain]
	return ok && domain != GenericDomain
}
