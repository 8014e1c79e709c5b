package profile

// Founder describes a startup seeking investment. Records are immutable after
// loading; multi-valued tag columns are split into ordered slices.
type Founder struct {
	StartupID          string   `mapstructure:"startup_id"`
	Name               string   `mapstructure:"startup_name"`
	Industries         []string `mapstructure:"industry"`
	Stage              string   `mapstructure:"startup_stage"`
	FundingRequiredUSD float64  `mapstructure:"funding_required_usd"`
	LocationCity       string   `mapstructure:"location_city"`
	LocationCountry    string   `mapstructure:"location_country"`
	BusinessModels     []string `mapstructure:"business_model"`
	MRRUSD             float64  `mapstructure:"mrr_usd"`
	UserCount          int64    `mapstructure:"user_count"`
	TeamSize           int64    `mapstructure:"team_size"`
	ProductDescription string   `mapstructure:"product_description"`
	USP                string   `mapstructure:"usp"`
	TractionSummary    string   `mapstructure:"traction_summary"`
}

// Investor describes an investment entity's preferences and capacity.
type Investor struct {
	InvestorID          string   `mapstructure:"investor_id"`
	Name                string   `mapstructure:"investor_name"`
	Type                string   `mapstructure:"investor_type"`
	PreferredIndustries []string `mapstructure:"preferred_industries"`
	PreferredStages     []string `mapstructure:"preferred_stages"`
	MinInvestmentUSD    float64  `mapstructure:"min_investment_usd"`
	MaxInvestmentUSD    float64  `mapstructure:"max_investment_usd"`
	AvgCheckSizeUSD     float64  `mapstructure:"check_size_avg_usd"`
	GeographicFocus     string   `mapstructure:"geographic_focus"`
	InvestmentThesis    string   `mapstructure:"investment_thesis"`
	PortfolioCompanies  string   `mapstructure:"portfolio_companies"`
}
