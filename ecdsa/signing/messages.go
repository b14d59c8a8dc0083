// Copyright © 2019 Binance
//
// This file is part of Binance. The full Binance copyright notice, including
// terms governing use, modification, and redistribution, is contained in the
// file LICENSE at the root of the source code distribution tree.

package signing

import (
	"math/big"

	"github.com/bnb-chain/threshold-signer/common"
	"github.com/bnb-chain/threshold-signer/crypto"
	"github.com/bnb-chain/threshold-signer/crypto/commitments"
	"github.com/bnb-chain/threshold-signer/crypto/mta"
	"github.com/bnb-chain/threshold-signer/crypto/zkp"
	"github.com/bnb-chain/threshold-signer/tss"
)

// Ensure that signing messages implement ValidateBasic
var _ = []tss.MessageContent{
	(*SignRound1Message1)(nil),
	(*SignRound1Message2)(nil),
	(*SignRound2Message)(nil),
	(*SignRound3Message)(nil),
	(*SignRound4Message)(nil),
	(*SignRound5Message)(nil),
	(*SignRound6Message)(nil),
	(*SignRound7Message)(nil),
}

// ----- round 1 ----- //

func NewSignRound1Message1(
	to, from *tss.PartyID,
	cA *big.Int,
	pf *mta.RangeProofAlice,
) tss.ParsedMessage {
	meta := tss.MessageRouting{
		From:        from,
		To:          []*tss.PartyID{to},
		IsBroadcast: false,
	}
	pfBz := pf.Bytes()
	content := &SignRound1Message1{
		C:               cA.Bytes(),
		RangeProofAlice: pfBz[:],
	}
	msg := tss.NewMessageWrapper(meta, content)
	return tss.NewMessage(meta, content, msg)
}

func (m *SignRound1Message1) ValidateBasic() bool {
	return m != nil &&
		common.NonEmptyBytes(m.C) &&
		common.NonEmptyMultiBytes(m.RangeProofAlice, mta.RangeProofAliceBytesParts)
}

func (m *SignRound1Message1) UnmarshalC() *big.Int {
	return new(big.Int).SetBytes(m.GetC())
}

func (m *SignRound1Message1) UnmarshalRangeProofAlice() (*mta.RangeProofAlice, error) {
	return mta.RangeProofAliceFromBytes(m.GetRangeProofAlice())
}

func NewSignRound1Message2(
	from *tss.PartyID,
	commitment commitments.HashCommitment,
) tss.ParsedMessage {
	meta := tss.MessageRouting{
		From:        from,
		IsBroadcast: true,
	}
	content := &SignRound1Message2{
		Commitment: commitment.Bytes(),
	}
	msg := tss.NewMessageWrapper(meta, content)
	return tss.NewMessage(meta, content, msg)
}

func (m *SignRound1Message2) ValidateBasic() bool {
	return m != nil && common.NonEmptyBytes(m.Commitment)
}

func (m *SignRound1Message2) UnmarshalCommitment() commitments.HashCommitment {
	return new(big.Int).SetBytes(m.GetCommitment())
}

// ----- round 2 ----- //

func NewSignRound2Message(
	to, from *tss.PartyID,
	c1ji *big.Int,
	pi1ji *mta.ProofBob,
	c2ji *big.Int,
	pi2ji *mta.ProofBobWC,
) tss.ParsedMessage {
	meta := tss.MessageRouting{
		From:        from,
		To:          []*tss.PartyID{to},
		IsBroadcast: false,
	}
	pi1Bz := pi1ji.Bytes()
	pi2Bz := pi2ji.Bytes()
	content := &SignRound2Message{
		C1:         c1ji.Bytes(),
		ProofBob:   pi1Bz[:],
		C2:         c2ji.Bytes(),
		ProofBobWc: pi2Bz[:],
	}
	msg := tss.NewMessageWrapper(meta, content)
	return tss.NewMessage(meta, content, msg)
}

func (m *SignRound2Message) ValidateBasic() bool {
	return m != nil &&
		common.NonEmptyBytes(m.C1) &&
		common.NonEmptyBytes(m.C2) &&
		common.NonEmptyMultiBytes(m.ProofBob, mta.ProofBobBytesParts) &&
		common.NonEmptyMultiBytes(m.ProofBobWc, mta.ProofBobWCBytesParts)
}

func (m *SignRound2Message) UnmarshalProofBob() (*mta.ProofBob, error) {
	return mta.ProofBobFromBytes(m.GetProofBob())
}

func (m *SignRound2Message) UnmarshalProofBobWC() (*mta.ProofBobWC, error) {
	return mta.ProofBobWCFromBytes(tss.EC(), m.GetProofBobWc())
}

// ----- round 3 ----- //

func NewSignRound3Message(
	from *tss.PartyID,
	deltaI *big.Int,
	TI *crypto.ECPoint,
	tProof *zkp.TProof,
) tss.ParsedMessage {
	meta := tss.MessageRouting{
		From:        from,
		IsBroadcast: true,
	}
	content := &SignRound3Message{
		DeltaI:      deltaI.Bytes(),
		TI:          TI.ToProtobufPoint(),
		TProofAlpha: tProof.Alpha.ToProtobufPoint(),
		TProofT:     tProof.T.Bytes(),
		TProofU:     tProof.U.Bytes(),
	}
	msg := tss.NewMessageWrapper(meta, content)
	return tss.NewMessage(meta, content, msg)
}

func (m *SignRound3Message) ValidateBasic() bool {
	if m == nil || !common.NonEmptyBytes(m.DeltaI) ||
		m.TI == nil || m.TProofAlpha == nil ||
		!common.NonEmptyBytes(m.TProofT) || !common.NonEmptyBytes(m.TProofU) {
		return false
	}
	TI, err := m.UnmarshalTI()
	if err != nil {
		return false
	}
	tProof, err := m.unmarshalTProof()
	if err != nil {
		return false
	}
	h, err := crypto.ECBasePoint2(tss.EC())
	if err != nil {
		return false
	}
	return tProof.Verify(TI, h)
}

func (m *SignRound3Message) UnmarshalTI() (*crypto.ECPoint, error) {
	return crypto.NewECPointFromProtobuf(m.GetTI())
}

func (m *SignRound3Message) unmarshalTProof() (*zkp.TProof, error) {
	alpha, err := crypto.NewECPointFromProtobuf(m.TProofAlpha)
	if err != nil {
		return nil, err
	}
	return &zkp.TProof{
		Alpha: alpha,
		T:     new(big.Int).SetBytes(m.TProofT),
		U:     new(big.Int).SetBytes(m.TProofU),
	}, nil
}

// ----- round 4 ----- //

func NewSignRound4Message(
	from *tss.PartyID,
	deCommit commitments.HashDeCommitment,
	piGamma *zkp.SchnorrProof,
) tss.ParsedMessage {
	meta := tss.MessageRouting{
		From:        from,
		IsBroadcast: true,
	}
	content := &SignRound4Message{
		DeCommitment: common.BigIntsToBytes(deCommit),
		ProofAlpha:   piGamma.Alpha.ToProtobufPoint(),
		ProofT:       piGamma.T.Bytes(),
	}
	msg := tss.NewMessageWrapper(meta, content)
	return tss.NewMessage(meta, content, msg)
}

func (m *SignRound4Message) ValidateBasic() bool {
	return m != nil &&
		common.NonEmptyMultiBytes(m.DeCommitment) &&
		m.ProofAlpha != nil &&
		common.NonEmptyBytes(m.ProofT)
}

func (m *SignRound4Message) UnmarshalDeCommitment() commitments.HashDeCommitment {
	return common.ByteSlicesToBigInts(m.GetDeCommitment())
}

func (m *SignRound4Message) UnmarshalProofGamma() (*zkp.SchnorrProof, error) {
	alpha, err := crypto.NewECPointFromProtobuf(m.ProofAlpha)
	if err != nil {
		return nil, err
	}
	return &zkp.SchnorrProof{Alpha: alpha, T: new(big.Int).SetBytes(m.ProofT)}, nil
}

// ----- round 5 ----- //

func NewSignRound5Message(
	from *tss.PartyID,
	bigRBarI *crypto.ECPoint,
	pdlWSlackPf *zkp.PDLwSlackProof,
) tss.ParsedMessage {
	meta := tss.MessageRouting{
		From:        from,
		IsBroadcast: true,
	}
	pfBz, err := pdlWSlackPf.Marshal()
	if err != nil {
		pfBz = nil
	}
	content := &SignRound5Message{
		RI:             bigRBarI.ToProtobufPoint(),
		PdlWSlackProof: pfBz,
	}
	msg := tss.NewMessageWrapper(meta, content)
	return tss.NewMessage(meta, content, msg)
}

func (m *SignRound5Message) ValidateBasic() bool {
	return m != nil && m.RI != nil && len(m.PdlWSlackProof) > 0
}

func (m *SignRound5Message) UnmarshalRI() (*crypto.ECPoint, error) {
	return crypto.NewECPointFromProtobuf(m.RI)
}

func (m *SignRound5Message) UnmarshalPDLwSlackProof() (*zkp.PDLwSlackProof, error) {
	return zkp.UnmarshalPDLwSlackProof(m.PdlWSlackProof)
}

// ----- round 6 ----- //

func NewSignRound6MessageAbort(
	from *tss.PartyID,
	abortData *SignRound6Message_AbortData,
) tss.ParsedMessage {
	meta := tss.MessageRouting{
		From:        from,
		IsBroadcast: true,
	}
	content := &SignRound6Message{
		Content: &SignRound6Message_Abort{Abort: abortData},
	}
	msg := tss.NewMessageWrapper(meta, content)
	return tss.NewMessage(meta, content, msg)
}

func NewSignRound6MessageSuccess(
	from *tss.PartyID,
	bigSI *crypto.ECPoint,
	stPf *zkp.STProof,
) tss.ParsedMessage {
	meta := tss.MessageRouting{
		From:        from,
		IsBroadcast: true,
	}
	content := &SignRound6Message{
		Content: &SignRound6Message_Success{
			Success: &SignRound6Message_SuccessData{
				SI:           bigSI.ToProtobufPoint(),
				StProofAlpha: stPf.Alpha.ToProtobufPoint(),
				StProofBeta:  stPf.Beta.ToProtobufPoint(),
				StProofT:     stPf.T.Bytes(),
				StProofU:     stPf.U.Bytes(),
			},
		},
	}
	msg := tss.NewMessageWrapper(meta, content)
	return tss.NewMessage(meta, content, msg)
}

func (m *SignRound6Message) ValidateBasic() bool {
	if m == nil || m.Content == nil {
		return false
	}
	switch c := m.Content.(type) {
	case *SignRound6Message_Abort:
		return c.Abort != nil &&
			common.NonEmptyBytes(c.Abort.GammaI) &&
			common.NonEmptyBytes(c.Abort.KI)
	case *SignRound6Message_Success:
		return c.Success != nil && c.Success.SI != nil &&
			c.Success.StProofAlpha != nil && c.Success.StProofBeta != nil &&
			common.NonEmptyBytes(c.Success.StProofT) && common.NonEmptyBytes(c.Success.StProofU)
	default:
		return false
	}
}

func (m *SignRound6Message_SuccessData) UnmarshalSI() (*crypto.ECPoint, error) {
	return crypto.NewECPointFromProtobuf(m.SI)
}

func (m *SignRound6Message_SuccessData) UnmarshalSTProof() (*zkp.STProof, error) {
	alpha, err := crypto.NewECPointFromProtobuf(m.StProofAlpha)
	if err != nil {
		return nil, err
	}
	beta, err := crypto.NewECPointFromProtobuf(m.StProofBeta)
	if err != nil {
		return nil, err
	}
	return &zkp.STProof{
		Alpha: alpha,
		Beta:  beta,
		T:     new(big.Int).SetBytes(m.StProofT),
		U:     new(big.Int).SetBytes(m.StProofU),
	}, nil
}

// ----- round 7 ----- //

func NewSignRound7Message(
	from *tss.PartyID,
	sI *big.Int,
) tss.ParsedMessage {
	meta := tss.MessageRouting{
		From:        from,
		IsBroadcast: true,
	}
	content := &SignRound7Message{
		Content: &SignRound7Message_SI{SI: sI.Bytes()},
	}
	msg := tss.NewMessageWrapper(meta, content)
	return tss.NewMessage(meta, content, msg)
}

func NewSignRound7MessageAbort(
	from *tss.PartyID,
	abortData *SignRound7Message_AbortData,
) tss.ParsedMessage {
	meta := tss.MessageRouting{
		From:        from,
		IsBroadcast: true,
	}
	content := &SignRound7Message{
		Content: &SignRound7Message_Abort{Abort: abortData},
	}
	msg := tss.NewMessageWrapper(meta, content)
	return tss.NewMessage(meta, content, msg)
}

func (m *SignRound7Message) ValidateBasic() bool {
	if m == nil || m.Content == nil {
		return false
	}
	switch c := m.Content.(type) {
	case *SignRound7Message_Abort:
		return c.Abort != nil &&
			common.NonEmptyBytes(c.Abort.KI) &&
			common.NonEmptyBytes(c.Abort.KRandI) &&
			len(c.Abort.MuIJ) > 0 &&
			c.Abort.EcddhProofA1 != nil && c.Abort.EcddhProofA2 != nil &&
			common.NonEmptyBytes(c.Abort.EcddhProofZ)
	case *SignRound7Message_SI:
		return common.NonEmptyBytes(c.SI)
	default:
		return false
	}
}

func (m *SignRound7Message_AbortData) UnmarshalSigmaIProof() (*zkp.ECDDHProof, error) {
	a1, err := crypto.NewECPointFromProtobuf(m.EcddhProofA1)
	if err != nil {
		return nil, err
	}
	a2, err := crypto.NewECPointFromProtobuf(m.EcddhProofA2)
	if err != nil {
		return nil, err
	}
	return &zkp.ECDDHProof{A1: a1, A2: a2, Z: new(big.Int).SetBytes(m.EcddhProofZ)}, nil
}
