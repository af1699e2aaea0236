package domain

// PositionQuery son los filtros de GET /positions. Los ceros se sustituyen por los defaults.
type PositionQuery struct {
	Limit         int
	Offset        int
	SortBy        string
	SortDirection string
	SizeThreshold float64
	Market        string
}

// WithDefaults rellena limit 100, sortBy CURRENT, DESC y sizeThreshold 0.01.
func (q PositionQuery) WithDefaults() PositionQuery {
	if q.Limit <= 0 {
		q.Limit = 100
	}
	if q.SortBy == "" {
		q.SortBy = "CURRENT"
	}
	if q.SortDirection == "" {
		q.SortDirection = "DESC"
	}
	if q.SizeThreshold <= 0 {
		q.SizeThreshold = 0.01
	}
	return q
}

// TradeQuery son los filtros de GET /trades.
type TradeQuery struct {
	Limit  int
	Offset int
	After  int64 // epoch seconds, 0 = sin filtro
	Side   string
}

// WithDefaults rellena limit 50.
func (q TradeQuery) WithDefaults() TradeQuery {
	if q.Limit <= 0 {
		q.Limit = 50
	}
	return q
}

// ActivityQuery son los filtros de GET /activity.
type ActivityQuery struct {
	Limit  int
	Offset int
	Type   string
}

// WithDefaults rellena limit 50.
func (q ActivityQuery) WithDefaults() ActivityQuery {
	if q.Limit <= 0 {
		q.Limit = 50
	}
	return q
}

// LeaderboardQuery son los filtros de GET /v1/leaderboard sin usuario.
type LeaderboardQuery struct {
	TimePeriod Period
	Category   string
	OrderBy    string
	Limit      int
	Offset     int
}

// WithDefaults rellena WEEK / OVERALL / PNL / 50.
func (q LeaderboardQuery) WithDefaults() LeaderboardQuery {
	if q.TimePeriod == "" {
		q.TimePeriod = PeriodWeek
	}
	if q.Category == "" {
		q.Category = "OVERALL"
	}
	if q.OrderBy == "" {
		q.OrderBy = "PNL"
	}
	if q.Limit <= 0 {
		q.Limit = 50
	}
	return q
}
