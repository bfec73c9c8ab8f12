package repository

import "errors"

// ErrSeanceStateNotFound is returned by Load when no state has ever been
// saved for the requested seance.  First load of a fresh seance is a
// normal condition: the caller starts from an all-free map.
var ErrSeanceStateNotFound = errors.New("seance state not found")
