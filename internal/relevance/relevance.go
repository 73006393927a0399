// Package relevance maps a natural-language request to the subset of
// business tables worth describing in a generation prompt. It is a
// keyword routing table, not semantics: a keyword hit contributes its
// tables in first-seen order, direct table-name mentions are added, and
// the result is capped so the prompt stays focused.
package relevance

import "strings"

// MaxTables caps how many tables a single request may pull in.
const MaxTables = 5

// coreTables is the fallback scope when no keyword or table name matches.
var coreTables = []string{"orders", "order_items", "products", "customers"}

type keywordEntry struct {
	keyword string
	tables  []string
}

// keywordMap routes request keywords (Chinese and English) to tables.
// Entry order matters: earlier entries claim scope slots first.
var keywordMap = []keywordEntry{
	// sales
	{"销售", []string{"orders", "order_items", "products"}},
	{"订单", []string{"orders", "order_items", "customers"}},
	{"收入", []string{"orders", "order_items", "products"}},
	{"金额", []string{"orders", "order_items"}},
	{"sales", []string{"orders", "order_items", "products"}},
	{"revenue", []string{"orders", "order_items", "products"}},
	{"order", []string{"orders", "order_items", "customers"}},

	// products
	{"产品", []string{"products", "product_categories", "suppliers", "order_items"}},
	{"商品", []string{"products", "product_categories", "order_items"}},
	{"product", []string{"products", "product_categories", "suppliers", "order_items"}},
	{"分类", []string{"product_categories", "products"}},
	{"category", []string{"product_categories", "products"}},

	// customers
	{"客户", []string{"customers", "customer_segments", "orders"}},
	{"用户", []string{"customers", "customer_segments", "website_sessions"}},
	{"customer", []string{"customers", "customer_segments", "orders"}},
	{"user", []string{"customers", "website_sessions"}},

	// employees
	{"员工", []string{"employees", "departments", "employee_performance"}},
	{"部门", []string{"departments", "employees"}},
	{"employee", []string{"employees", "departments", "employee_performance"}},
	{"department", []string{"departments", "employees"}},

	// reviews
	{"评价", []string{"product_reviews", "products", "customers"}},
	{"评论", []string{"product_reviews", "products"}},
	{"review", []string{"product_reviews", "products", "customers"}},
	{"rating", []string{"product_reviews", "products"}},

	// support
	{"支持", []string{"customer_support_tickets", "customers", "employees"}},
	{"工单", []string{"customer_support_tickets", "customers"}},
	{"support", []string{"customer_support_tickets", "customers", "employees"}},
	{"ticket", []string{"customer_support_tickets", "customers"}},

	// website
	{"网站", []string{"website_sessions", "customers"}},
	{"会话", []string{"website_sessions", "customers"}},
	{"website", []string{"website_sessions", "customers"}},
	{"session", []string{"website_sessions", "customers"}},

	// marketing
	{"营销", []string{"marketing_campaigns", "campaign_interactions", "customers"}},
	{"活动", []string{"marketing_campaigns", "campaign_interactions"}},
	{"marketing", []string{"marketing_campaigns", "campaign_interactions", "customers"}},
	{"campaign", []string{"marketing_campaigns", "campaign_interactions"}},

	// time
	{"最近", []string{"orders", "order_items", "website_sessions"}},
	{"今天", []string{"orders", "website_sessions"}},
	{"本月", []string{"orders", "order_items"}},
	{"趋势", []string{"orders", "order_items", "website_sessions"}},
	{"recent", []string{"orders", "order_items", "website_sessions"}},
	{"today", []string{"orders", "website_sessions"}},
	{"trend", []string{"orders", "order_items", "website_sessions"}},

	// aggregation
	{"总额", []string{"orders", "order_items"}},
	{"数量", []string{"orders", "order_items", "products", "customers"}},
	{"平均", []string{"orders", "order_items", "product_reviews"}},
	{"排行", []string{"orders", "order_items", "products"}},
	{"total", []string{"orders", "order_items"}},
	{"count", []string{"orders", "order_items", "products", "customers"}},
	{"average", []string{"orders", "order_items", "product_reviews"}},
	{"top", []string{"orders", "order_items", "products"}},
	{"rank", []string{"orders", "order_items", "products"}},
}

// SelectTables returns at most MaxTables tables relevant to the request,
// drawn from allTables. If nothing matches it falls back to the core
// business tables present in allTables. The result is deterministic for
// a given request and table list.
func SelectTables(request string, allTables []string) []string {
	lower := strings.ToLower(request)

	available := make(map[string]bool, len(allTables))
	for _, t := range allTables {
		available[t] = true
	}

	var selected []string
	seen := make(map[string]bool)
	add := func(table string) {
		if available[table] && !seen[table] {
			seen[table] = true
			selected = append(selected, table)
		}
	}

	for _, entry := range keywordMap {
		if strings.Contains(lower, entry.keyword) {
			for _, table := range entry.tables {
				add(table)
			}
		}
	}

	// Direct table-name mentions count too.
	for _, table := range allTables {
		if strings.Contains(lower, strings.ToLower(table)) {
			add(table)
		}
	}

	if len(selected) == 0 {
		for _, table := range coreTables {
			add(table)
		}
	}

	if len(selected) > MaxTables {
		selected = selected[:MaxTables]
	}
	return selected
}
