package ingest

// Source column names in the catalog CSV header.
const (
	ColumnName             = "Name"
	ColumnWebsite          = "Website"
	ColumnGeneration       = "Generation"
	ColumnOptimizedFor     = "Optimized for"
	ColumnUserFocus        = "User focus"
	ColumnDeployment       = "Deployment support"
	ColumnDataModeling     = "Data modeling"
	ColumnNoCodeInterface  = "No-code interface"
	ColumnPricing          = "Pricing"
	ColumnQueryUsing       = "Query using"
	ColumnDWIntegrations   = "DW integrations"
	ColumnFeatures         = "Features"
	ColumnNativeConnectors = "Number of native connectors"
)

// Dictionaries groups the token dictionaries used to split multi-value columns.
type Dictionaries struct {
	OptimizedFor Dictionary
	UserFocus    Dictionary
	Deployment   Dictionary
	Pricing      Dictionary
	QueryUsing   Dictionary
	Features     Dictionary
}

// DefaultDictionaries returns the dictionaries for the catalog columns.
func DefaultDictionaries() Dictionaries {
	return Dictionaries{
		OptimizedFor: NewDictionary("optimizedFor",
			"mid-market", "Enterprise", "SMB's",
		),
		UserFocus: NewDictionary("userFocus",
			"Marketing Analytics", "Business users", "Data Engineers", "Analysts",
		),
		Deployment: NewDictionary("deployment",
			"Open-source", "Self-hosted", "On-prem", "Cloud",
		),
		Pricing: NewDictionary("pricing",
			"Pay per Session", "Contact Only", "Usage based", "free trial",
			"Freemium", "Undisclosed", "N/A",
		),
		QueryUsing: NewDictionary("queryUsing",
			"SQL-based language", "Text query", "No-code", "Python", "LookML",
			"SQL", "DAX", "R",
		),
		Features: NewDictionary("features",
			"Augmented Analytics", "Augmented analytics",
			"Create no-code data models", "Create your own data pipeline",
			"Automatic SQL translation", "Spreadsheet interface",
			"Python & R notebooks", "ML models creation",
			"Embedded analytics", "Dashboard builder",
			"Data Preparation", "Data Integration", "Data Sharing",
			"Data exploration", "Data Analysis", "Data Engineering",
			"Data Modeling", "Data Movement", "Data extraction",
			"Data warehousing", "Data workflow automation", "Data apps",
			"Application integration", "Data transformation",
			"Metrics management", "Performance analysis",
			"Workflow Automation", "Calculated fields",
			"Row permissions", "Version control", "Drill down",
			"Integrated writeback", "Live query",
			"Business Intelligence", "Self-service",
			"SQL editor", "SQL IDE", "Visualization",
			"Explorations", "Glossary", "Ingestion",
			"discovery", "collaboration", "interactive dashboards",
			"drilldowns", "Dbt powered",
		),
	}
}

// DefaultIntegrationPairs returns the two-word integration names folded by SplitIntegrations.
func DefaultIntegrationPairs() PairSet {
	return NewPairSet(
		[2]string{"Azure", "SQL"},
		[2]string{"Amazon", "Athena"},
		[2]string{"Google", "analytics"},
		[2]string{"25", "+"},
	)
}
