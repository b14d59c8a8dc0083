// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package tss

// MessageWrapper_PartyID is the wire representation of a PartyID: just enough
// to identify the sender/recipient on the far end of the transport.
type MessageWrapper_PartyID struct {
	Id      string
	Moniker string
	Key     []byte
}

// MessageWrapper is the envelope carried over the wire for every protocol
// message: routing metadata plus the round content itself. Round content
// types are registered with encoding/gob (see each round package's wire.go)
// so this envelope can hold any of them behind the MessageContent interface.
type MessageWrapper struct {
	IsBroadcast      bool
	IsToOldCommittee bool
	From             *MessageWrapper_PartyID
	To               []*MessageWrapper_PartyID
	Message          MessageContent
}
