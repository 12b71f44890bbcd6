// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package jval

import (
	"github.com/creachadair/jval/internal/escape"

	"go4.org/mem"
)

// Quote encodes src as a JSON string literal. The contents are escaped
// and double quotation marks are added.
func Quote(src string) string { return string(escape.AppendQuote(nil, mem.S(src))) }
