package mocks

//go:generate mockgen -destination=./mock_series.go -package=mocks github.com/rxtech-lab/eod-backtest/internal/series Series
//go:generate mockgen -destination=./mock_database.go -package=mocks github.com/rxtech-lab/eod-backtest/internal/series Database
