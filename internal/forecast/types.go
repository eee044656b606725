package forecast

// Forecast is the computed financial outcome for a scenario, as returned
// by the backend. Monetary fields share one currency unit with no scaling.
type Forecast struct {
	Revenue      float64 `json:"revenue"`
	Expenses     float64 `json:"expenses"`
	Profit       float64 `json:"profit"`
	RunwayMonths float64 `json:"runway"`
}

// Usage is the server's snapshot of how many scenarios and reports were run.
type Usage struct {
	Scenarios int `json:"scenarios"`
	Reports   int `json:"reports"`
}

// Result is a decoded simulate response.
type Result struct {
	Forecast Forecast
	Usage    Usage
}

// SimulateRequest is the wire body of POST /simulate.
type SimulateRequest struct {
	Hires      int     `json:"hires"`
	ExtraSpend float64 `json:"extra_spend"`
	PriceDelta float64 `json:"price_delta"`
}

// SimulateResponse is the wire body returned by POST /simulate.
// Pointers distinguish a missing object from a zero one.
type SimulateResponse struct {
	Forecast *Forecast `json:"forecast"`
	Usage    *Usage    `json:"usage"`
}
