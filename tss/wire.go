// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package tss

import (
	"bytes"
	"encoding/gob"
	"errors"
)

// ParseWireMessage reconstructs a ParsedMessage from bytes produced by
// MessageImpl.WireBytes. Used externally to update a LocalParty with a
// message received over the transport.
func ParseWireMessage(wireBytes []byte, from *PartyID, isBroadcast bool) (ParsedMessage, error) {
	wire := new(MessageWrapper)
	if err := gob.NewDecoder(bytes.NewReader(wireBytes)).Decode(wire); err != nil {
		return nil, err
	}
	wire.From = from.MessageWrapper_PartyID
	wire.IsBroadcast = isBroadcast
	return parseWrappedMessage(wire, from)
}

func parseWrappedMessage(wire *MessageWrapper, from *PartyID) (ParsedMessage, error) {
	if wire.Message == nil {
		return nil, errors.New("ParseWireMessage: the message contained unknown content")
	}
	meta := MessageRouting{
		From:        from,
		IsBroadcast: wire.IsBroadcast,
	}
	return NewMessage(meta, wire.Message, wire), nil
}
