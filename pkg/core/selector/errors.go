package selector

import "errors"

// ErrConfigurationInfeasible marks structural input errors the algorithm cannot recover from:
// a flexible deficit larger than the flexible group, or a draw larger than its pool.
var ErrConfigurationInfeasible = errors.New("configuration infeasible")
