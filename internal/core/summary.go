package core

// CategoryCount is the number of transactions in one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// Statistics summarises one month of sales.
type Statistics struct {
	TotalSaleAmount   float64 `json:"totalSaleAmount"`
	TotalSoldItems    int64   `json:"totalSoldItems"`
	TotalNotSoldItems int64   `json:"totalNotSoldItems"`
}

// CombinedReport is the dashboard payload for a month.
type CombinedReport struct {
	Transactions []Transaction   `json:"transactions"`
	Statistics   Statistics      `json:"statistics"`
	BarChart     PriceHistogram  `json:"barChart"`
	PieChart     []CategoryCount `json:"pieChart"`

	// Range is the interval every part was computed against.
	Range DateRange `json:"-"`
}
