package booking

import "sync"

// Per-service advisory locks. Holding the lock across the conflict
// check and the insert closes the check-then-act window between two
// in-process booking requests for the same service.
var serviceLocks sync.Map

func LockService(serviceID uint) *sync.Mutex {
	v, _ := serviceLocks.LoadOrStore(serviceID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu
}
