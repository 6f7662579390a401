package service

import "errors"

var (
	// ErrQuantityBelowMinimum: trade quantity is under the 0.1 submission
	// threshold; the request never reaches the network.
	ErrQuantityBelowMinimum = errors.New("error trade quantity below minimum")
	ErrNotSignedIn          = errors.New("error not signed in")
)
