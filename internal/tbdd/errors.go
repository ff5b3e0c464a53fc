// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tbdd

import "errors"

// Sentinel errors, matching rudd's plain errors.New/fmt.Errorf style
// (errors.go) rather than a custom error-code hierarchy. ErrShortRead,
// ErrBadVar and ErrBadReference are returned by the binary blob reader;
// ErrOddLeading is not returned by any function in this module.
var (
	ErrShortRead    = errors.New("tbdd: short read in binary blob")
	ErrBadVar       = errors.New("tbdd: variable index out of range")
	ErrBadReference = errors.New("tbdd: dangling node reference in binary blob")
	ErrOddLeading   = errors.New("tbdd: leading variable of relation is not even")
)
