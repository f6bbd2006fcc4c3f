// Copyright © 2015 Drake Wilson.  Copying, distribution, and modification of this software is governed by
// the MIT-style license in the file ../LICENSE.md.

package coder

import (
	"sort"
	"strconv"

	"github.com/blanu/piedpiper/huffman"
)

// Params holds the options of a Coder.
type Params struct {
	// Trailing decides whether Decode fails or truncates when the bits end inside a codeword.
	Trailing huffman.TrailingPolicy

	// VerifyPrefix makes Encode check the prefix property of every code table it builds.
	VerifyPrefix bool
}

var defParams = Params{
	Trailing:     huffman.TrailingError,
	VerifyPrefix: false,
}

// DefParams returns the stock set of coder parameters.
func DefParams() Params {
	return defParams
}

// IsParamKey returns true iff key is a parameter ParseParams recognizes.
func IsParamKey(key string) bool {
	_, ok := defParams.Unparse()[key]
	return ok
}

// ParseParams builds Params from KEY=VALUE pairs, starting from DefParams.  Recognized keys are "trailing"
// (error or drop) and "verify" (a boolean).
func ParseParams(unparsed map[string]string) (*Params, error) {
	params := DefParams()

	keys := make([]string, 0, len(unparsed))
	for key := range unparsed {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		val := unparsed[key]
		switch key {
		default:
			return nil, &ParameterError{ParameterUnexpected, "parameter", key}
		case "trailing":
			policy, ok := huffman.ParseTrailingPolicy(val)
			if !ok {
				return nil, &ParameterError{ParameterInvalid, "trailing policy", val}
			}
			params.Trailing = policy
		case "verify":
			verify, err := strconv.ParseBool(val)
			if err != nil {
				return nil, &ParameterError{ParameterInvalid, "verify flag", val}
			}
			params.VerifyPrefix = verify
		}
	}

	return &params, nil
}

// Unparse is the inverse of ParseParams.
func (params Params) Unparse() map[string]string {
	return map[string]string{
		"trailing": params.Trailing.String(),
		"verify":   strconv.FormatBool(params.VerifyPrefix),
	}
}
