package domain

// Amount is a monetary value in whole currency units.
type Amount int64
