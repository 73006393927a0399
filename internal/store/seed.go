package store

import (
	"database/sql"
	"fmt"
	"math/rand"
	"strings"
	"time"
)

const (
	seedEmployees = 50
	seedProducts  = 200
	seedCustomers = 1000
	seedOrders    = 5000
	seedReviews   = 2000
	seedSessions  = 10000
	seedTickets   = 1500
)

// Seeded reports whether the sample data has already been loaded,
// using the orders table as the sentinel.
func (s *Store) Seeded() (bool, error) {
	var n int64
	if err := s.writer.QueryRow("SELECT COUNT(*) FROM orders").Scan(&n); err != nil {
		return false, fmt.Errorf("store: seeded check: %w", err)
	}
	return n > 0, nil
}

// Seed populates the business tables with generated sample data. A fixed
// RNG seed keeps the dataset reproducible across machines. Existing rows
// are left untouched; callers should check Seeded first.
func (s *Store) Seed() error {
	rng := rand.New(rand.NewSource(42))

	tx, err := s.writer.Begin()
	if err != nil {
		return fmt.Errorf("store: seed begin: %w", err)
	}
	defer tx.Rollback()

	sd := &seeder{tx: tx, rng: rng}
	steps := []func() error{
		sd.departments,
		sd.employees,
		sd.productCategories,
		sd.suppliers,
		sd.products,
		sd.customerSegments,
		sd.customers,
		sd.orders,
		sd.reviews,
		sd.sessions,
		sd.tickets,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return fmt.Errorf("store: seed: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: seed commit: %w", err)
	}
	return nil
}

type seeder struct {
	tx  *sql.Tx
	rng *rand.Rand

	// carried between steps so dependent rows reference valid keys
	employeePositions []string
	productPrices     []float64
}

func (sd *seeder) departments() error {
	rows := [][]any{
		{1, "Sales", nil, 500000.0, "New York", "2020-01-01"},
		{2, "Marketing", nil, 300000.0, "Los Angeles", "2020-01-01"},
		{3, "Engineering", nil, 800000.0, "San Francisco", "2020-01-01"},
		{4, "Customer Service", nil, 200000.0, "Austin", "2020-01-01"},
		{5, "HR", nil, 150000.0, "Chicago", "2020-01-01"},
		{6, "Finance", nil, 250000.0, "New York", "2020-01-01"},
		{7, "Operations", nil, 400000.0, "Seattle", "2020-01-01"},
		{8, "Product Management", nil, 350000.0, "San Francisco", "2020-01-01"},
	}
	return sd.insertRows("INSERT INTO departments VALUES (?, ?, ?, ?, ?, ?)", rows)
}

var employeeNames = []string{
	"Alice Johnson", "Bob Smith", "Charlie Brown", "Diana Prince", "Eve Wilson",
	"Frank Miller", "Grace Lee", "Henry Davis", "Iris Chen", "Jack Wilson",
	"Kate Thompson", "Leo Garcia", "Maya Patel", "Noah Williams", "Olivia Martinez",
	"Peter Anderson", "Quinn Taylor", "Rachel Moore", "Sam Jackson", "Tina Liu",
	"Uma Sharma", "Victor Kim", "Wendy Chang", "Xavier Rodriguez", "Yuki Tanaka",
	"Zoe Clark", "Aaron Lewis", "Bella Ross", "Carlos Mendez", "Donna Wright",
	"Ethan Cooper", "Fiona Murphy", "George Hall", "Hannah Green", "Ian Foster",
	"Julia Barnes", "Kevin Scott", "Luna Wang", "Max Turner", "Nina Patel",
	"Oscar Martinez", "Penny Johnson", "Quincy Adams", "Rita Singh", "Steve Wilson",
	"Tara Chen", "Ulysses Grant", "Vera Kozlov", "Walter White", "Xena Warrior",
}

var departmentPositions = map[int][]string{
	1: {"Sales Rep", "Senior Sales Rep", "Sales Manager", "VP Sales"},
	2: {"Marketing Specialist", "Marketing Manager", "CMO"},
	3: {"Software Engineer", "Senior Engineer", "Tech Lead", "Engineering Manager", "CTO"},
	4: {"Support Agent", "Senior Support Agent", "Support Manager"},
	5: {"HR Specialist", "HR Manager", "CHRO"},
	6: {"Financial Analyst", "Senior Analyst", "Finance Manager", "CFO"},
	7: {"Operations Specialist", "Operations Manager", "COO"},
	8: {"Product Manager", "Senior Product Manager", "VP Product"},
}

var baseSalaries = map[string]int{
	"Sales Rep": 45000, "Senior Sales Rep": 65000, "Sales Manager": 85000, "VP Sales": 150000,
	"Marketing Specialist": 50000, "Marketing Manager": 75000, "CMO": 180000,
	"Software Engineer": 80000, "Senior Engineer": 120000, "Tech Lead": 140000,
	"Engineering Manager": 160000, "CTO": 200000,
	"Support Agent": 35000, "Senior Support Agent": 45000, "Support Manager": 65000,
	"HR Specialist": 45000, "HR Manager": 70000, "CHRO": 160000,
	"Financial Analyst": 55000, "Senior Analyst": 75000, "Finance Manager": 95000, "CFO": 180000,
	"Operations Specialist": 50000, "Operations Manager": 80000, "COO": 170000,
	"Product Manager": 90000, "Senior Product Manager": 120000, "VP Product": 160000,
}

func (sd *seeder) employees() error {
	sd.employeePositions = make([]string, seedEmployees)
	var rows [][]any
	for i := 0; i < seedEmployees; i++ {
		deptID := (i % 8) + 1
		positions := departmentPositions[deptID]
		position := positions[sd.rng.Intn(len(positions))]
		sd.employeePositions[i] = position

		name := employeeNames[i]
		email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@company.com"
		hireDate := time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, sd.rng.Intn(2000))
		salary := baseSalaries[position] + sd.rng.Intn(20000) - 5000
		performance := roundTo(6.5+sd.rng.Float64()*3.0, 1)

		var managerID any
		if !strings.HasPrefix(position, "VP") && !strings.HasPrefix(position, "C") && i > 5 {
			managerID = sd.rng.Intn(i-5) + 1
		}

		rows = append(rows, []any{
			i + 1, name, email, deptID, position, salary,
			hireDate.Format("2006-01-02"), performance, managerID, "active",
		})
	}
	return sd.insertRows("INSERT INTO employees VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", rows)
}

func (sd *seeder) productCategories() error {
	rows := [][]any{
		{1, "Electronics", nil, "Electronic devices and accessories", "2020-01-01"},
		{2, "Smartphones", 1, "Mobile phones and accessories", "2020-01-01"},
		{3, "Laptops", 1, "Portable computers", "2020-01-01"},
		{4, "Tablets", 1, "Touch screen tablets", "2020-01-01"},
		{5, "Home & Garden", nil, "Home improvement and gardening", "2020-01-01"},
		{6, "Kitchen", 5, "Kitchen appliances and tools", "2020-01-01"},
		{7, "Furniture", 5, "Home furniture", "2020-01-01"},
		{8, "Clothing", nil, "Fashion and apparel", "2020-01-01"},
		{9, "Men's Clothing", 8, "Men's fashion", "2020-01-01"},
		{10, "Women's Clothing", 8, "Women's fashion", "2020-01-01"},
		{11, "Sports & Fitness", nil, "Sports equipment and fitness gear", "2020-01-01"},
		{12, "Books", nil, "Physical and digital books", "2020-01-01"},
	}
	return sd.insertRows("INSERT INTO product_categories VALUES (?, ?, ?, ?, ?)", rows)
}

func (sd *seeder) suppliers() error {
	rows := [][]any{
		{1, "TechCorp Solutions", "contact@techcorp.com", "555-0101", "123 Tech St, Silicon Valley, CA", "USA", 4.5, "2015-03-15"},
		{2, "Global Electronics Ltd", "info@globalelec.com", "555-0102", "456 Circuit Ave, Shenzhen", "China", 4.2, "2012-08-20"},
		{3, "Fashion Forward Inc", "orders@fashionforward.com", "555-0103", "789 Style Blvd, New York, NY", "USA", 4.7, "2018-01-10"},
		{4, "Home Comfort Co", "sales@homecomfort.com", "555-0104", "321 Cozy Lane, Portland, OR", "USA", 4.3, "2016-05-25"},
		{5, "SportMax International", "wholesale@sportmax.com", "555-0105", "654 Athletic Dr, Munich", "Germany", 4.6, "2014-11-30"},
		{6, "BookWorld Publishers", "distribution@bookworld.com", "555-0106", "987 Literary St, London", "UK", 4.4, "2013-07-12"},
	}
	return sd.insertRows("INSERT INTO suppliers VALUES (?, ?, ?, ?, ?, ?, ?, ?)", rows)
}

var productNames = map[int][]string{
	2:  {"iPhone 15 Pro", "Samsung Galaxy S24", "Google Pixel 8", "OnePlus 12", "Xiaomi Mi 14"},
	3:  {"MacBook Pro M3", "Dell XPS 13", "HP Spectre x360", "Lenovo ThinkPad X1", "ASUS ZenBook"},
	4:  {"iPad Pro", "Samsung Galaxy Tab S9", "Microsoft Surface Pro", "Amazon Fire HD", "Lenovo Tab P11"},
	6:  {"KitchenAid Mixer", "Ninja Blender", "Instant Pot", "Cuisinart Food Processor", "Vitamix Blender"},
	7:  {"Ergonomic Office Chair", "Standing Desk", "Bookshelf", "Dining Table", "Sofa Set"},
	9:  {"Men's Casual Shirt", "Business Suit", "Jeans", "Polo Shirt", "Winter Jacket"},
	10: {"Summer Dress", "Blouse", "Leggings", "Evening Gown", "Casual Jacket"},
	11: {"Yoga Mat", "Dumbbells", "Treadmill", "Resistance Bands", "Exercise Bike"},
	12: {"Programming Guide", "Business Strategy", "Fiction Novel", "History Book", "Self-Help"},
}

var productPriceRanges = map[int][2]float64{
	2: {200, 1200}, 3: {500, 2500}, 4: {150, 800}, 6: {50, 400},
	7: {100, 1500}, 9: {20, 200}, 10: {25, 300}, 11: {15, 800}, 12: {10, 50},
}

var productBrands = []string{"Apple", "Samsung", "Google", "Nike", "Adidas", "Sony", "LG", "Generic"}

func (sd *seeder) products() error {
	categoryIDs := []int{2, 3, 4, 6, 7, 9, 10, 11, 12}
	sd.productPrices = make([]float64, seedProducts)
	var rows [][]any
	for i := 0; i < seedProducts; i++ {
		catID := categoryIDs[sd.rng.Intn(len(categoryIDs))]
		names := productNames[catID]
		name := fmt.Sprintf("%s - Model %d", names[sd.rng.Intn(len(names))], i+1)

		pr := productPriceRanges[catID]
		price := roundTo(pr[0]+sd.rng.Float64()*(pr[1]-pr[0]), 2)
		cost := roundTo(price*(0.4+sd.rng.Float64()*0.3), 2)
		sd.productPrices[i] = price

		launchDate := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, sd.rng.Intn(1400))
		dims := fmt.Sprintf("%dx%dx%dcm", 10+sd.rng.Intn(41), 10+sd.rng.Intn(41), 5+sd.rng.Intn(26))

		rows = append(rows, []any{
			i + 1, name, fmt.Sprintf("SKU%04d", i+1), catID, price, cost,
			roundTo(0.1+sd.rng.Float64()*4.9, 2), dims,
			fmt.Sprintf("High-quality %s with premium features", strings.Fields(name)[0]),
			productBrands[sd.rng.Intn(len(productBrands))],
			launchDate.Format("2006-01-02"), "active", sd.rng.Intn(6) + 1,
		})
	}
	return sd.insertRows("INSERT INTO products VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", rows)
}

func (sd *seeder) customerSegments() error {
	rows := [][]any{
		{1, "VIP", "High-value repeat customers", 1000.0, 5, "2020-01-01"},
		{2, "Regular", "Regular customers", 100.0, 2, "2020-01-01"},
		{3, "New", "New customers", 0.0, 0, "2020-01-01"},
		{4, "At Risk", "Customers at risk of churning", 50.0, 1, "2020-01-01"},
	}
	return sd.insertRows("INSERT INTO customer_segments VALUES (?, ?, ?, ?, ?, ?)", rows)
}

var (
	customerFirstNames = []string{
		"James", "Mary", "John", "Patricia", "Robert", "Jennifer", "Michael", "Linda", "William", "Elizabeth",
		"David", "Barbara", "Richard", "Susan", "Joseph", "Jessica", "Thomas", "Sarah", "Christopher", "Karen",
		"Daniel", "Nancy", "Matthew", "Lisa", "Anthony", "Betty", "Mark", "Helen", "Donald", "Sandra",
	}
	customerLastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez",
		"Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin",
	}
	customerCities      = []string{"New York", "Los Angeles", "Chicago", "Houston", "Phoenix", "Philadelphia", "San Antonio", "San Diego", "Dallas", "San Jose"}
	customerStates      = []string{"NY", "CA", "IL", "TX", "AZ", "PA", "TX", "CA", "TX", "CA"}
	customerCountries   = []string{"USA", "Canada", "UK", "Australia", "Germany", "France", "Japan", "Brazil"}
	customerChannels    = []string{"organic_search", "paid_search", "social_media", "email", "direct", "referral", "affiliate"}
	customerStreetNames = []string{"Main", "Oak", "First", "Second", "Park", "Elm"}
)

func (sd *seeder) customers() error {
	var rows [][]any
	for i := 0; i < seedCustomers; i++ {
		first := customerFirstNames[sd.rng.Intn(len(customerFirstNames))]
		last := customerLastNames[sd.rng.Intn(len(customerLastNames))]
		email := fmt.Sprintf("%s.%s%d@email.com", strings.ToLower(first), strings.ToLower(last), i)

		signup := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, sd.rng.Intn(1500))
		lastLogin := signup.AddDate(0, 0, sd.rng.Intn(300))
		birth := time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, sd.rng.Intn(25000))
		cityIdx := sd.rng.Intn(10)
		segmentID := weightedPick(sd.rng, []int{1, 2, 3, 4}, []int{5, 40, 35, 20})
		status := "active"
		if sd.rng.Intn(2) == 1 {
			status = "inactive"
		}

		rows = append(rows, []any{
			i + 1, first + " " + last, email, fmt.Sprintf("555-%04d", 1000+sd.rng.Intn(9000)),
			fmt.Sprintf("%d %s St", 100+sd.rng.Intn(9900), customerStreetNames[sd.rng.Intn(len(customerStreetNames))]),
			customerCities[cityIdx], customerStates[cityIdx],
			customerCountries[sd.rng.Intn(len(customerCountries))],
			fmt.Sprintf("%05d", 10000+sd.rng.Intn(90000)),
			birth.Format("2006-01-02"),
			[]string{"M", "F", "Other"}[sd.rng.Intn(3)],
			signup.Format("2006-01-02"), lastLogin.Format("2006-01-02"),
			segmentID, roundTo(sd.rng.Float64()*5000, 2),
			customerChannels[sd.rng.Intn(len(customerChannels))], status,
		})
	}
	return sd.insertRows("INSERT INTO customers VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", rows)
}

func (sd *seeder) orders() error {
	// Orders are booked by sales staff only.
	var salesReps []int
	for i, pos := range sd.employeePositions {
		if pos == "Sales Rep" || pos == "Senior Sales Rep" {
			salesReps = append(salesReps, i+1)
		}
	}
	if len(salesReps) == 0 {
		salesReps = []int{1}
	}

	orderStmt, err := sd.tx.Prepare("INSERT INTO orders VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer orderStmt.Close()
	itemStmt, err := sd.tx.Prepare("INSERT INTO order_items VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer itemStmt.Close()

	paymentMethods := []string{"credit_card", "debit_card", "paypal", "bank_transfer"}
	regions := []string{"North", "South", "East", "West", "Central"}
	channels := []string{"online", "retail", "phone", "b2b"}

	itemID := 1
	for i := 0; i < seedOrders; i++ {
		orderDate := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, sd.rng.Intn(730))
		shipDate := orderDate.AddDate(0, 0, 1+sd.rng.Intn(5))
		deliveryDate := shipDate.AddDate(0, 0, 1+sd.rng.Intn(10))
		status := weightedPickStr(sd.rng,
			[]string{"delivered", "shipped", "processing", "cancelled"},
			[]int{70, 15, 10, 5})

		shippingCost := roundTo(5+sd.rng.Float64()*20, 2)
		discount := roundTo(sd.rng.Float64()*50, 2)

		// Line items priced from the product catalog.
		var orderTotal float64
		numItems := 1 + sd.rng.Intn(5)
		type item struct {
			productID int
			quantity  int
			unitPrice float64
			discRate  float64
			lineTotal float64
		}
		items := make([]item, 0, numItems)
		for j := 0; j < numItems; j++ {
			productID := sd.rng.Intn(seedProducts) + 1
			quantity := 1 + sd.rng.Intn(3)
			unitPrice := sd.productPrices[productID-1]
			discRate := sd.rng.Float64() * 0.2
			lineTotal := roundTo(unitPrice*float64(quantity)*(1-discRate), 2)
			orderTotal += lineTotal
			items = append(items, item{productID, quantity, unitPrice, roundTo(discRate, 3), lineTotal})
		}
		taxAmount := roundTo(orderTotal*0.08, 2)
		totalAmount := roundTo(orderTotal+taxAmount+shippingCost-discount, 2)

		var shipDateV, deliveryDateV any
		if status != "cancelled" {
			shipDateV = shipDate.Format("2006-01-02")
		}
		if status == "delivered" {
			deliveryDateV = deliveryDate.Format("2006-01-02")
		}

		_, err := orderStmt.Exec(
			i+1, sd.rng.Intn(seedCustomers)+1, salesReps[sd.rng.Intn(len(salesReps))],
			orderDate.Format("2006-01-02"), shipDateV, deliveryDateV,
			status, paymentMethods[sd.rng.Intn(len(paymentMethods))],
			shippingCost, taxAmount, discount, totalAmount,
			regions[sd.rng.Intn(len(regions))], channels[sd.rng.Intn(len(channels))],
		)
		if err != nil {
			return err
		}

		for _, it := range items {
			if _, err := itemStmt.Exec(itemID, i+1, it.productID, it.quantity, it.unitPrice, it.discRate, it.lineTotal); err != nil {
				return err
			}
			itemID++
		}
	}
	return nil
}

var reviewTexts = []string{
	"Great product, highly recommend!",
	"Good value for money",
	"Excellent quality and fast shipping",
	"Not what I expected, but okay",
	"Outstanding product, will buy again",
	"Poor quality, disappointed",
	"Average product, nothing special",
	"Perfect for my needs",
	"Could be better for the price",
	"Exactly as described, very happy",
}

func (sd *seeder) reviews() error {
	var rows [][]any
	for i := 0; i < seedReviews; i++ {
		orderID := sd.rng.Intn(seedOrders) + 1

		var customerID int
		err := sd.tx.QueryRow(
			"SELECT customer_id FROM orders WHERE order_id = ? AND order_status = 'delivered'",
			orderID,
		).Scan(&customerID)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return err
		}

		reviewDate := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, sd.rng.Intn(730))
		rows = append(rows, []any{
			i + 1, sd.rng.Intn(seedProducts) + 1, customerID, orderID,
			weightedPick(sd.rng, []int{1, 2, 3, 4, 5}, []int{5, 10, 15, 30, 40}),
			reviewTexts[sd.rng.Intn(len(reviewTexts))],
			reviewDate.Format("2006-01-02"), sd.rng.Intn(51), 1,
		})
	}
	return sd.insertRows("INSERT INTO product_reviews VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)", rows)
}

func (sd *seeder) sessions() error {
	stmt, err := sd.tx.Prepare("INSERT INTO website_sessions VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	devices := []string{"desktop", "mobile", "tablet"}
	browsers := []string{"Chrome", "Firefox", "Safari", "Edge"}
	sources := []string{"organic", "paid_search", "social", "direct", "email", "referral"}

	for i := 0; i < seedSessions; i++ {
		var customerID any
		if sd.rng.Intn(5) > 0 { // some sessions are anonymous
			customerID = sd.rng.Intn(seedCustomers) + 1
		}
		start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC).
			AddDate(0, 0, sd.rng.Intn(730)).
			Add(time.Duration(sd.rng.Intn(24)) * time.Hour).
			Add(time.Duration(sd.rng.Intn(60)) * time.Minute)
		end := start.Add(time.Duration(30+sd.rng.Intn(3570)) * time.Second)

		pageViews := 1 + sd.rng.Intn(20)
		bounce := 0.0
		if pageViews == 1 {
			bounce = 1.0
		}
		conversion := 0
		if sd.rng.Intn(100) < 15 {
			conversion = 1
		}

		_, err := stmt.Exec(
			i+1, customerID,
			start.Format("2006-01-02 15:04:05"), end.Format("2006-01-02 15:04:05"),
			pageViews, bounce,
			devices[sd.rng.Intn(len(devices))], browsers[sd.rng.Intn(len(browsers))],
			sources[sd.rng.Intn(len(sources))], conversion,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

var ticketSubjects = map[string][]string{
	"technical": {"Website not loading", "Login issues", "Mobile app crash", "Payment processing error"},
	"billing":   {"Incorrect charge", "Refund request", "Payment method update", "Invoice inquiry"},
	"shipping":  {"Delayed delivery", "Wrong address", "Damaged package", "Tracking issues"},
	"product":   {"Defective item", "Missing parts", "Wrong size", "Product inquiry"},
	"other":     {"General inquiry", "Feedback", "Complaint", "Suggestion"},
}

func (sd *seeder) tickets() error {
	var agents []int
	for i, pos := range sd.employeePositions {
		if strings.Contains(pos, "Support") {
			agents = append(agents, i+1)
		}
	}
	if len(agents) == 0 {
		agents = []int{1}
	}

	categories := []string{"technical", "billing", "shipping", "product", "other"}
	var rows [][]any
	for i := 0; i < seedTickets; i++ {
		category := categories[sd.rng.Intn(len(categories))]
		priority := weightedPickStr(sd.rng, []string{"low", "medium", "high", "urgent"}, []int{40, 35, 20, 5})
		status := weightedPickStr(sd.rng, []string{"resolved", "closed", "open", "in_progress"}, []int{50, 30, 15, 5})
		created := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, sd.rng.Intn(730))

		var resolvedDate, satisfaction, resolutionHours any
		if status == "resolved" || status == "closed" {
			hours := 1 + sd.rng.Float64()*119
			resolutionHours = roundTo(hours, 2)
			resolvedDate = created.Add(time.Duration(hours * float64(time.Hour))).Format("2006-01-02 15:04:05")
			satisfaction = 1 + sd.rng.Intn(5)
		}

		subjects := ticketSubjects[category]
		rows = append(rows, []any{
			i + 1, sd.rng.Intn(seedCustomers) + 1, agents[sd.rng.Intn(len(agents))],
			category, priority, status,
			subjects[sd.rng.Intn(len(subjects))],
			fmt.Sprintf("Customer issue regarding %s", category),
			created.Format("2006-01-02 15:04:05"), resolvedDate,
			satisfaction, resolutionHours,
		})
	}
	return sd.insertRows("INSERT INTO customer_support_tickets VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)", rows)
}

func (sd *seeder) insertRows(query string, rows [][]any) error {
	stmt, err := sd.tx.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, row := range rows {
		if _, err := stmt.Exec(row...); err != nil {
			return err
		}
	}
	return nil
}

func roundTo(v float64, places int) float64 {
	scale := 1.0
	for i := 0; i < places; i++ {
		scale *= 10
	}
	return float64(int64(v*scale+0.5)) / scale
}

func weightedPick(rng *rand.Rand, values []int, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	n := rng.Intn(total)
	for i, w := range weights {
		if n < w {
			return values[i]
		}
		n -= w
	}
	return values[len(values)-1]
}

func weightedPickStr(rng *rand.Rand, values []string, weights []int) string {
	total := 0
	for _, w := range weights {
		total += w
	}
	n := rng.Intn(total)
	for i, w := range weights {
		if n < w {
			return values[i]
		}
		n -= w
	}
	return values[len(values)-1]
}
