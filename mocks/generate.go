package mocks

//go:generate mockgen -destination=./mock_portfolio.go -package=mocks github.com/deltrader-lab/deltrader/internal/portfolio Manager
//go:generate mockgen -destination=./mock_strategy.go -package=mocks github.com/deltrader-lab/deltrader/internal/strategy Strategy
//go:generate mockgen -destination=./mock_indicator.go -package=mocks github.com/deltrader-lab/deltrader/internal/indicator Engine
