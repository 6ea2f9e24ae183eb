package token

// Env is the execution context the host supplies to a single call.
type Env struct {
	// Caller is the account that invoked the call.
	Caller AccountID
	// Timestamp is the host clock at the time of the call, stamped on
	// transfer records.
	Timestamp uint64
}
