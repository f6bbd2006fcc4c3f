// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package coder

import (
	"errors"
)

var (
	ErrNoTree = errors.New("coder: no tree built yet; encode first")
	ErrClosed = errors.New("coder: use of closed coder")
)

// ParameterErrorHow describes whether the parameter referenced in a ParameterError is unexpected (present but
// without a known interpretation) or invalid (present with an uninterpretable value).
type ParameterErrorHow int

const (
	ParameterErrorUnknown ParameterErrorHow = iota
	ParameterUnexpected
	ParameterInvalid
)

// ParameterError describes a problem relating to a specific parameter.
type ParameterError struct {
	How      ParameterErrorHow
	Kind     string
	Specific string
}

func (pe *ParameterError) Error() string {
	var str string
	switch pe.How {
	case ParameterErrorUnknown:
		str = "??? "
	case ParameterUnexpected:
		str = "unexpected "
	case ParameterInvalid:
		str = "invalid "
	}

	str += pe.Kind
	if pe.Specific != "" {
		str += " '" + pe.Specific + "'"
	}
	return "coder: " + str
}
