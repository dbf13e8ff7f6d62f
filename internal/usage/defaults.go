package usage

// DefaultFreeLimit is the free-plan analysis allowance when none is configured.
const DefaultFreeLimit = 2

func defaultUsage(freeLimit int) Usage {
	if freeLimit <= 0 {
		freeLimit = DefaultFreeLimit
	}
	return Usage{
		Plan:  PlanFree,
		Limit: freeLimit,
		Used:  0,
	}
}
