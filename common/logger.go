// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package common

import (
	logging "github.com/ipfs/go-log"
)

const (
	subsystem = "tss-lib"
)

var Logger = logging.Logger(subsystem)

// SetLogLevel delegates to the logging subsystem so that callers (CLIs,
// services) can raise or lower verbosity of the protocol-level logger
// without reaching into the ipfs/go-log package directly.
func SetLogLevel(level string) error {
	return logging.SetLogLevel(subsystem, level)
}
