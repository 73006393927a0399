package store

import "fmt"

// DDL for the sample business database. Table and column names are part of
// the prompt contract: the relevance keyword map and the metadata formatter
// both refer to them.

const schemaDepartments = `
CREATE TABLE IF NOT EXISTS departments (
    department_id INTEGER PRIMARY KEY,
    department_name TEXT NOT NULL,
    manager_id INTEGER,
    budget REAL,
    location TEXT,
    created_date TEXT
);
`

const schemaEmployees = `
CREATE TABLE IF NOT EXISTS employees (
    employee_id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT UNIQUE,
    department_id INTEGER,
    position TEXT,
    salary REAL,
    hire_date TEXT,
    performance_score REAL,
    manager_id INTEGER,
    status TEXT DEFAULT 'active',
    FOREIGN KEY(department_id) REFERENCES departments(department_id),
    FOREIGN KEY(manager_id) REFERENCES employees(employee_id)
);
`

const schemaProductCategories = `
CREATE TABLE IF NOT EXISTS product_categories (
    category_id INTEGER PRIMARY KEY,
    category_name TEXT NOT NULL,
    parent_category_id INTEGER,
    description TEXT,
    created_date TEXT,
    FOREIGN KEY(parent_category_id) REFERENCES product_categories(category_id)
);
`

const schemaSuppliers = `
CREATE TABLE IF NOT EXISTS suppliers (
    supplier_id INTEGER PRIMARY KEY,
    supplier_name TEXT NOT NULL,
    contact_email TEXT,
    contact_phone TEXT,
    address TEXT,
    country TEXT,
    rating REAL,
    established_date TEXT
);
`

const schemaProducts = `
CREATE TABLE IF NOT EXISTS products (
    product_id INTEGER PRIMARY KEY,
    product_name TEXT NOT NULL,
    sku TEXT UNIQUE,
    category_id INTEGER,
    price REAL,
    cost REAL,
    weight REAL,
    dimensions TEXT,
    description TEXT,
    brand TEXT,
    launch_date TEXT,
    status TEXT DEFAULT 'active',
    supplier_id INTEGER,
    FOREIGN KEY(category_id) REFERENCES product_categories(category_id),
    FOREIGN KEY(supplier_id) REFERENCES suppliers(supplier_id)
);
`

const schemaInventoryLogs = `
CREATE TABLE IF NOT EXISTS inventory_logs (
    log_id INTEGER PRIMARY KEY,
    product_id INTEGER,
    change_type TEXT,
    quantity_change INTEGER,
    current_stock INTEGER,
    unit_cost REAL,
    timestamp TEXT,
    employee_id INTEGER,
    notes TEXT,
    FOREIGN KEY(product_id) REFERENCES products(product_id),
    FOREIGN KEY(employee_id) REFERENCES employees(employee_id)
);
`

const schemaCustomerSegments = `
CREATE TABLE IF NOT EXISTS customer_segments (
    segment_id INTEGER PRIMARY KEY,
    segment_name TEXT NOT NULL,
    description TEXT,
    min_order_value REAL,
    min_order_count INTEGER,
    created_date TEXT
);
`

const schemaCustomers = `
CREATE TABLE IF NOT EXISTS customers (
    customer_id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT UNIQUE,
    phone TEXT,
    address TEXT,
    city TEXT,
    state TEXT,
    country TEXT,
    postal_code TEXT,
    date_of_birth TEXT,
    gender TEXT,
    signup_date TEXT,
    last_login TEXT,
    segment_id INTEGER,
    lifetime_value REAL DEFAULT 0,
    acquisition_channel TEXT,
    status TEXT DEFAULT 'active',
    FOREIGN KEY(segment_id) REFERENCES customer_segments(segment_id)
);
`

const schemaWebsiteSessions = `
CREATE TABLE IF NOT EXISTS website_sessions (
    session_id INTEGER PRIMARY KEY,
    customer_id INTEGER,
    session_start TEXT,
    session_end TEXT,
    page_views INTEGER,
    bounce_rate REAL,
    device_type TEXT,
    browser TEXT,
    traffic_source TEXT,
    conversion_flag INTEGER DEFAULT 0,
    FOREIGN KEY(customer_id) REFERENCES customers(customer_id)
);
`

const schemaOrders = `
CREATE TABLE IF NOT EXISTS orders (
    order_id INTEGER PRIMARY KEY,
    customer_id INTEGER,
    employee_id INTEGER,
    order_date TEXT,
    ship_date TEXT,
    delivery_date TEXT,
    order_status TEXT,
    payment_method TEXT,
    shipping_cost REAL,
    tax_amount REAL,
    discount_amount REAL,
    total_amount REAL,
    region TEXT,
    sales_channel TEXT,
    FOREIGN KEY(customer_id) REFERENCES customers(customer_id),
    FOREIGN KEY(employee_id) REFERENCES employees(employee_id)
);
`

const schemaOrderItems = `
CREATE TABLE IF NOT EXISTS order_items (
    order_item_id INTEGER PRIMARY KEY,
    order_id INTEGER,
    product_id INTEGER,
    quantity INTEGER,
    unit_price REAL,
    discount_rate REAL DEFAULT 0,
    line_total REAL,
    FOREIGN KEY(order_id) REFERENCES orders(order_id),
    FOREIGN KEY(product_id) REFERENCES products(product_id)
);
`

const schemaProductReviews = `
CREATE TABLE IF NOT EXISTS product_reviews (
    review_id INTEGER PRIMARY KEY,
    product_id INTEGER,
    customer_id INTEGER,
    order_id INTEGER,
    rating INTEGER,
    review_text TEXT,
    review_date TEXT,
    helpful_votes INTEGER DEFAULT 0,
    verified_purchase INTEGER DEFAULT 1,
    FOREIGN KEY(product_id) REFERENCES products(product_id),
    FOREIGN KEY(customer_id) REFERENCES customers(customer_id),
    FOREIGN KEY(order_id) REFERENCES orders(order_id)
);
`

const schemaSupportTickets = `
CREATE TABLE IF NOT EXISTS customer_support_tickets (
    ticket_id INTEGER PRIMARY KEY,
    customer_id INTEGER,
    employee_id INTEGER,
    category TEXT,
    priority TEXT,
    status TEXT,
    subject TEXT,
    description TEXT,
    created_date TEXT,
    resolved_date TEXT,
    satisfaction_score INTEGER,
    resolution_time_hours REAL,
    FOREIGN KEY(customer_id) REFERENCES customers(customer_id),
    FOREIGN KEY(employee_id) REFERENCES employees(employee_id)
);
`

const schemaMarketingCampaigns = `
CREATE TABLE IF NOT EXISTS marketing_campaigns (
    campaign_id INTEGER PRIMARY KEY,
    campaign_name TEXT NOT NULL,
    campaign_type TEXT,
    start_date TEXT,
    end_date TEXT,
    budget REAL,
    target_audience TEXT,
    goal TEXT,
    status TEXT,
    employee_id INTEGER,
    FOREIGN KEY(employee_id) REFERENCES employees(employee_id)
);
`

const schemaCampaignInteractions = `
CREATE TABLE IF NOT EXISTS campaign_interactions (
    interaction_id INTEGER PRIMARY KEY,
    campaign_id INTEGER,
    customer_id INTEGER,
    interaction_type TEXT,
    interaction_date TEXT,
    value REAL,
    FOREIGN KEY(campaign_id) REFERENCES marketing_campaigns(campaign_id),
    FOREIGN KEY(customer_id) REFERENCES customers(customer_id)
);
`

const schemaSalesTargets = `
CREATE TABLE IF NOT EXISTS sales_targets (
    target_id INTEGER PRIMARY KEY,
    employee_id INTEGER,
    year INTEGER,
    quarter INTEGER,
    target_amount REAL,
    actual_amount REAL DEFAULT 0,
    product_category TEXT,
    region TEXT,
    FOREIGN KEY(employee_id) REFERENCES employees(employee_id)
);
`

const schemaEmployeePerformance = `
CREATE TABLE IF NOT EXISTS employee_performance (
    performance_id INTEGER PRIMARY KEY,
    employee_id INTEGER,
    evaluation_date TEXT,
    overall_score REAL,
    communication_score REAL,
    technical_score REAL,
    leadership_score REAL,
    goals_achieved INTEGER,
    goals_total INTEGER,
    feedback TEXT,
    evaluator_id INTEGER,
    FOREIGN KEY(employee_id) REFERENCES employees(employee_id),
    FOREIGN KEY(evaluator_id) REFERENCES employees(employee_id)
);
`

const schemaRegionalPerformance = `
CREATE TABLE IF NOT EXISTS regional_performance (
    region_id INTEGER PRIMARY KEY,
    region_name TEXT NOT NULL,
    country TEXT,
    population INTEGER,
    gdp_per_capita REAL,
    market_size REAL,
    competition_level TEXT,
    sales_manager_id INTEGER,
    FOREIGN KEY(sales_manager_id) REFERENCES employees(employee_id)
);
`

// allSchemas lists every DDL block in dependency order.
var allSchemas = []string{
	schemaDepartments,
	schemaEmployees,
	schemaProductCategories,
	schemaSuppliers,
	schemaProducts,
	schemaInventoryLogs,
	schemaCustomerSegments,
	schemaCustomers,
	schemaWebsiteSessions,
	schemaOrders,
	schemaOrderItems,
	schemaProductReviews,
	schemaSupportTickets,
	schemaMarketingCampaigns,
	schemaCampaignInteractions,
	schemaSalesTargets,
	schemaEmployeePerformance,
	schemaRegionalPerformance,
}

// EnsureSchema creates every business table if it does not already exist.
// The DDL is idempotent, so calling it on an existing database is a no-op.
func (s *Store) EnsureSchema() error {
	for _, ddl := range allSchemas {
		if _, err := s.writer.Exec(ddl); err != nil {
			return fmt.Errorf("store: create table: %w", err)
		}
	}
	return nil
}
