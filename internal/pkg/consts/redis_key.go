package consts

const (
	// DashboardKey 增强分析缓存 analytics:dashboard:{userID}:{date}
	DashboardKey = "analytics:dashboard:"
	// DirtyUserDateKey 消费端写入的待重算集合，成员为 {userID}:{date}
	DirtyUserDateKey = "analytics:dirty"
)

const (
	RollupLock       = "analytics:lock:rollup:"
	PurgeLock        = "analytics:lock:purge"
	GoalProgressLock = "analytics:lock:goal"
	DirtyRollupLock  = "analytics:lock:dirty"
)
