// Package health reports whether the cache's record store is usable.
//
// A Checker reports a Result with a Status of Healthy, Degraded or Unhealthy.
// StoreChecker checks a store.Store by writing, reading back and deleting a
// record; Run runs several checkers concurrently and folds their results into
// a Report.
//
//	st := store.NewFile(dir)
//	_ = st.Open(ctx)
//	result := health.NewStoreChecker(st, health.StoreCheckerConfig{}).Check(ctx)
//	if result.Status == health.StatusUnhealthy {
//	    log.Printf("store %s: %s", st.Name(), result.Message)
//	}
package health
