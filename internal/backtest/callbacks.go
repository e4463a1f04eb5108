package backtest

// Lifecycle callback types for a backtest run.
// Callbacks with an error return abort the run when they fail.

// OnRunStartCallback is called once the series is loaded and the strategy is ready.
type OnRunStartCallback func(runID string, symbol string, strategyName string, totalSteps int) error

// OnProcessDataCallback is called for each strategy step processed.
type OnProcessDataCallback func(current int, total int) error

// OnRunEndCallback is called after the results have been written.
type OnRunEndCallback func(result Result)

// OnBacktestEndCallback is called when the run completes (always called via defer).
type OnBacktestEndCallback func(err error)

// LifecycleCallbacks holds the callbacks of a run. A nil field is not invoked.
type LifecycleCallbacks struct {
	OnRunStart    *OnRunStartCallback
	OnProcessData *OnProcessDataCallback
	OnRunEnd      *OnRunEndCallback
	OnBacktestEnd *OnBacktestEndCallback
}

// stepCounter forwards strategy progress to OnProcessData.
type stepCounter struct {
	current  int
	total    int
	callback *OnProcessDataCallback
}

func (c *stepCounter) Add(num int) error {
	c.current += num
	if c.callback == nil {
		return nil
	}

	return (*c.callback)(c.current, c.total)
}
